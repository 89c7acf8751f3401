// Package pacing derives the user's allowance, cooldown, level and week
// transitions from a progression record. Everything here is pure: no I/O,
// no clocks, no shared state.
package pacing

import (
	"errors"
	"fmt"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
)

// Policy names accepted by PolicyByName.
const (
	PolicyStep   = "step"
	PolicyLinear = "linear"
)

var ErrUnknownPolicy = errors.New("unknown allowance policy")

// reductionPercent is the share of the baseline removed in each week.
var reductionPercent = [entities.LastWeek]int{25, 50, 65, 80, 90, 100}

// AllowanceInput carries everything a policy may need.
type AllowanceInput struct {
	Baseline   int
	Week       int
	DaysPassed int
}

// AllowancePolicy computes how many cigarettes are permitted today.
type AllowancePolicy interface {
	Name() string
	Allowed(in AllowanceInput) int
}

// StepPolicy removes a fixed share of the baseline per program week.
type StepPolicy struct{}

func (StepPolicy) Name() string { return PolicyStep }

func (StepPolicy) Allowed(in AllowanceInput) int {
	return StepAllowance(in.Baseline, in.Week)
}

// LinearPolicy decays the baseline evenly over the program days.
type LinearPolicy struct{}

func (LinearPolicy) Name() string { return PolicyLinear }

func (LinearPolicy) Allowed(in AllowanceInput) int {
	return LinearAllowance(in.Baseline, in.DaysPassed)
}

// PolicyByName resolves a configured policy name.
func PolicyByName(name string) (AllowancePolicy, error) {
	switch name {
	case PolicyStep, "":
		return StepPolicy{}, nil
	case PolicyLinear:
		return LinearPolicy{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// StepAllowance returns ceil(baseline * (1 - reduction[week])).
// Week is clamped to [1,6] and baseline to at least 1.
func StepAllowance(baseline, week int) int {
	baseline = ClampBaseline(baseline)
	week = ClampWeek(week)

	kept := 100 - reductionPercent[week-1]
	allowed := (baseline*kept + 99) / 100

	return max(allowed, 0)
}

// LinearAllowance returns baseline - floor(baseline/42 * daysPassed).
// daysPassed is clamped to [0,42].
func LinearAllowance(baseline, daysPassed int) int {
	baseline = ClampBaseline(baseline)
	daysPassed = min(max(daysPassed, 0), entities.ProgramDays)

	removed := baseline * daysPassed / entities.ProgramDays

	return max(baseline-removed, 0)
}

func ClampWeek(week int) int {
	return min(max(week, entities.FirstWeek), entities.LastWeek)
}

func ClampBaseline(baseline int) int {
	return max(baseline, entities.MinBaseline)
}
