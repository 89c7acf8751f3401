package pacing

import (
	"time"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
)

// WeekTransition describes a pending one-step week advance.
type WeekTransition struct {
	Available bool
	From      int
	To        int
	Candidate int // week implied by the elapsed days, may be ahead of To
}

// DaysSinceStart returns the whole days elapsed since start, never negative.
func DaysSinceStart(start, now time.Time) int {
	if now.Before(start) {
		return 0
	}
	return int(now.Sub(start) / day)
}

// CandidateWeek is the week implied by elapsed days, capped at the last week.
func CandidateWeek(days int) int {
	return min(max(days, 0)/7+1, entities.LastWeek)
}

// EvaluateWeek checks whether the stored week may advance. The advance is
// offered only on a week boundary (a positive multiple of 7 days) and is always
// exactly one step, even when several boundaries were missed.
func EvaluateWeek(start time.Time, current int, now time.Time) WeekTransition {
	current = ClampWeek(current)
	days := DaysSinceStart(start, now)
	candidate := CandidateWeek(days)

	t := WeekTransition{From: current, To: current, Candidate: candidate}

	if days > 0 && days%7 == 0 && candidate > current {
		t.Available = true
		t.To = current + 1
	}

	return t
}
