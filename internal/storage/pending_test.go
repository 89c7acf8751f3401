package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingInputs(t *testing.T) {
	s := NewPendingInputs(0)

	_, ok := s.Get(1)
	assert.False(t, ok)

	s.Expect(1, InputBaseline)
	in, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, InputBaseline, in.Kind)

	s.Set(1, PendingInput{Kind: InputSymptoms, Baseline: 12})
	in, ok = s.Get(1)
	require.True(t, ok)
	assert.Equal(t, InputSymptoms, in.Kind)
	assert.Equal(t, 12, in.Baseline)

	s.Clear(1)
	_, ok = s.Get(1)
	assert.False(t, ok)
}

func TestPendingInputsExpire(t *testing.T) {
	s := NewPendingInputs(time.Minute)

	s.Set(1, PendingInput{Kind: InputRestart, Since: time.Now().Add(-2 * time.Minute)})
	_, ok := s.Get(1)
	assert.False(t, ok)

	s.Expect(2, InputRestart)
	_, ok = s.Get(2)
	assert.True(t, ok)
}
