package breathing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultScheduleLength(t *testing.T) {
	s := DefaultSchedule()

	assert.Equal(t, 14*time.Second, s.Cycle())
	assert.Equal(t, 5, s.Cycles())
	assert.Equal(t, 70*time.Second, s.Total())
}

func TestScheduleAt(t *testing.T) {
	s := DefaultSchedule()

	tests := []struct {
		elapsed time.Duration
		phase   Phase
		cycle   int
		left    time.Duration
	}{
		{0, PhaseInhale, 1, 4 * time.Second},
		{3 * time.Second, PhaseInhale, 1, time.Second},
		{4 * time.Second, PhaseHold, 1, 4 * time.Second},
		{8 * time.Second, PhaseExhale, 1, 6 * time.Second},
		{13 * time.Second, PhaseExhale, 1, time.Second},
		{14 * time.Second, PhaseInhale, 2, 4 * time.Second},
		{60 * time.Second, PhaseHold, 5, 4 * time.Second},
		{69 * time.Second, PhaseExhale, 5, time.Second},
	}

	for _, tt := range tests {
		st := s.At(tt.elapsed)
		assert.Equal(t, tt.phase, st.Phase, "elapsed %s", tt.elapsed)
		assert.Equal(t, tt.cycle, st.Cycle, "elapsed %s", tt.elapsed)
		assert.Equal(t, tt.left, st.PhaseLeft, "elapsed %s", tt.elapsed)
		assert.False(t, st.Done)
	}
}

func TestScheduleDone(t *testing.T) {
	s := DefaultSchedule()

	st := s.At(70 * time.Second)
	assert.True(t, st.Done)
	assert.Equal(t, PhaseComplete, st.Phase)
	assert.InDelta(t, 1.0, st.Progress, 1e-9)

	assert.Equal(t, PhaseIdle, s.At(-time.Second).Phase)
}

func TestProgressIsMonotonic(t *testing.T) {
	s := DefaultSchedule()
	prev := -1.0
	for e := time.Duration(0); e <= s.Total(); e += 500 * time.Millisecond {
		p := s.At(e).Progress
		assert.GreaterOrEqual(t, p, prev)
		assert.LessOrEqual(t, p, 1.0)
		prev = p
	}
}
