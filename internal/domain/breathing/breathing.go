// Package breathing describes the guided breathing exercise schedule.
package breathing

import "time"

// Phase is a step of the breathing cycle.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseInhale   Phase = "inhale"
	PhaseHold     Phase = "hold"
	PhaseExhale   Phase = "exhale"
	PhaseComplete Phase = "complete"
)

// Default timings.
const (
	InhaleDuration = 4 * time.Second
	HoldDuration   = 4 * time.Second
	ExhaleDuration = 6 * time.Second
	TargetDuration = 60 * time.Second
)

// Schedule defines one exercise. The exercise ends with the first exhale that
// finishes at or after Target.
type Schedule struct {
	Inhale time.Duration
	Hold   time.Duration
	Exhale time.Duration
	Target time.Duration
}

// State is the exercise position at a moment.
type State struct {
	Phase     Phase
	Cycle     int           // 1-based breathing cycle
	PhaseLeft time.Duration // time left in the current phase
	Progress  float64       // 0..1 over the whole exercise
	Done      bool
}

func DefaultSchedule() Schedule {
	return Schedule{
		Inhale: InhaleDuration,
		Hold:   HoldDuration,
		Exhale: ExhaleDuration,
		Target: TargetDuration,
	}
}

// Cycle is the length of one inhale-hold-exhale round.
func (s Schedule) Cycle() time.Duration {
	return s.Inhale + s.Hold + s.Exhale
}

// Cycles is the number of full rounds in the exercise.
func (s Schedule) Cycles() int {
	c := s.Cycle()
	if c <= 0 {
		return 0
	}
	n := int(s.Target / c)
	if time.Duration(n)*c < s.Target {
		n++
	}
	return max(n, 1)
}

// Total is the full exercise length.
func (s Schedule) Total() time.Duration {
	return time.Duration(s.Cycles()) * s.Cycle()
}

// At returns the state after elapsed time.
func (s Schedule) At(elapsed time.Duration) State {
	total := s.Total()
	if total <= 0 {
		return State{Phase: PhaseComplete, Progress: 1, Done: true}
	}
	if elapsed < 0 {
		return State{Phase: PhaseIdle}
	}
	if elapsed >= total {
		return State{Phase: PhaseComplete, Cycle: s.Cycles(), Progress: 1, Done: true}
	}

	cycle := s.Cycle()
	n := int(elapsed / cycle)
	in := elapsed - time.Duration(n)*cycle

	st := State{
		Cycle:    n + 1,
		Progress: float64(elapsed) / float64(total),
	}

	switch {
	case in < s.Inhale:
		st.Phase = PhaseInhale
		st.PhaseLeft = s.Inhale - in
	case in < s.Inhale+s.Hold:
		st.Phase = PhaseHold
		st.PhaseLeft = s.Inhale + s.Hold - in
	default:
		st.Phase = PhaseExhale
		st.PhaseLeft = cycle - in
	}

	return st
}
