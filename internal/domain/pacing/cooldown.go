package pacing

import (
	"fmt"
	"time"
)

const day = 24 * time.Hour

// CooldownInterval is the even spacing between permitted cigarettes.
// It is zero when nothing is permitted.
func CooldownInterval(allowed int) time.Duration {
	if allowed <= 0 {
		return 0
	}
	return day / time.Duration(allowed)
}

// TimeUntilNextAllowed returns how long the user has to wait before the next
// cigarette. A nil last timestamp means nothing was smoked yet.
func TimeUntilNextAllowed(last *time.Time, allowed int, now time.Time) time.Duration {
	if allowed <= 0 || last == nil {
		return 0
	}

	next := last.Add(CooldownInterval(allowed))
	if !next.After(now) {
		return 0
	}

	return next.Sub(now)
}

// Millis converts a duration to whole milliseconds.
func Millis(d time.Duration) int64 {
	return d.Milliseconds()
}

// FormatTime renders a duration as HH:MM:SS. Hours are not wrapped at 24.
func FormatTime(d time.Duration) string {
	if d <= 0 {
		return "00:00:00"
	}

	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total / 60) % 60
	seconds := total % 60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
