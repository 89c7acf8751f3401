package pacing

import "math"

const xpPerLevelUnit = 10

// Level returns floor(sqrt(xp/10)) + 1. Negative xp counts as zero.
func Level(xp int) int {
	xp = max(xp, 0)

	n := int(math.Sqrt(float64(xp) / xpPerLevelUnit))
	// Correct float rounding near perfect squares.
	for n > 0 && n*n*xpPerLevelUnit > xp {
		n--
	}
	for (n+1)*(n+1)*xpPerLevelUnit <= xp {
		n++
	}

	return n + 1
}

// LevelThreshold is the XP needed to reach level.
func LevelThreshold(level int) int {
	level = max(level, 1)
	return (level - 1) * (level - 1) * xpPerLevelUnit
}

// LevelProgress is the fraction of the way from the current level to the next.
func LevelProgress(xp int) float64 {
	xp = max(xp, 0)

	lvl := Level(xp)
	lo := LevelThreshold(lvl)
	hi := LevelThreshold(lvl + 1)

	p := float64(xp-lo) / float64(hi-lo)

	return min(max(p, 0), 1)
}
