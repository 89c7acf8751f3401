package pacing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{-10, 1},
		{0, 1},
		{9, 1},
		{10, 2},
		{39, 2},
		{40, 3},
		{89, 3},
		{90, 4},
		{1000, 11},
		{999, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Level(tt.xp), "xp %d", tt.xp)
	}
}

func TestLevelThreshold(t *testing.T) {
	assert.Equal(t, 0, LevelThreshold(1))
	assert.Equal(t, 10, LevelThreshold(2))
	assert.Equal(t, 40, LevelThreshold(3))
	assert.Equal(t, 90, LevelThreshold(4))
	assert.Equal(t, 0, LevelThreshold(0))
}

func TestLevelProgress(t *testing.T) {
	assert.InDelta(t, 0.0, LevelProgress(0), 1e-9)
	assert.InDelta(t, 0.5, LevelProgress(5), 1e-9)
	assert.InDelta(t, 0.0, LevelProgress(10), 1e-9)
	assert.InDelta(t, 0.5, LevelProgress(25), 1e-9)
	assert.InDelta(t, 0.0, LevelProgress(-3), 1e-9)

	prev := -1.0
	prevLevel := 1
	for xp := 0; xp <= 500; xp++ {
		p := LevelProgress(xp)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)

		lvl := Level(xp)
		if lvl == prevLevel {
			assert.GreaterOrEqual(t, p, prev, "xp %d", xp)
		} else {
			assert.Less(t, p, prev, "xp %d should reset progress", xp)
		}
		prev, prevLevel = p, lvl
	}
}
