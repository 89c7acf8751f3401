package pacing

import (
	"fmt"
	"time"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
)

// Snapshot holds every value derived from a record at one instant.
type Snapshot struct {
	Now            time.Time
	DaysSinceStart int
	Day            int // 1-based day of the program
	Week           int
	Allowed        int
	Cooldown       time.Duration
	CanSmokeNow    bool
	Complete       bool
	XP             int
	Level          int
	LevelProgress  float64
	Transition     WeekTransition

	// Anomalies lists inputs that had to be clamped.
	Anomalies []string
}

// Engine binds an allowance policy to the other calculators.
type Engine struct {
	policy AllowancePolicy
}

// NewEngine creates an engine. A nil policy selects the step policy.
func NewEngine(policy AllowancePolicy) *Engine {
	if policy == nil {
		policy = StepPolicy{}
	}
	return &Engine{policy: policy}
}

// Policy returns the allowance policy in use.
func (e *Engine) Policy() AllowancePolicy {
	return e.policy
}

// AllowedToday computes today's allowance for the record.
func (e *Engine) AllowedToday(r entities.ProgressionRecord, now time.Time) int {
	return e.policy.Allowed(AllowanceInput{
		Baseline:   r.BaselineDailyCount,
		Week:       r.CurrentWeek,
		DaysPassed: DaysSinceStart(r.StartDate, now),
	})
}

// Evaluate derives the full snapshot for the record at now.
func (e *Engine) Evaluate(r entities.ProgressionRecord, now time.Time) Snapshot {
	var anomalies []string
	if r.BaselineDailyCount < entities.MinBaseline {
		anomalies = append(anomalies, fmt.Sprintf("baseline %d clamped to %d", r.BaselineDailyCount, entities.MinBaseline))
	}
	if w := ClampWeek(r.CurrentWeek); w != r.CurrentWeek {
		anomalies = append(anomalies, fmt.Sprintf("week %d clamped to %d", r.CurrentWeek, w))
	}
	if r.ExperiencePoints < 0 {
		anomalies = append(anomalies, fmt.Sprintf("experience %d clamped to 0", r.ExperiencePoints))
	}
	if now.Before(r.StartDate) {
		anomalies = append(anomalies, "start date is in the future")
	}

	days := DaysSinceStart(r.StartDate, now)
	week := ClampWeek(r.CurrentWeek)
	allowed := e.AllowedToday(r, now)
	cooldown := TimeUntilNextAllowed(r.LastCigaretteAt, allowed, now)
	xp := max(r.ExperiencePoints, 0)

	return Snapshot{
		Now:            now,
		DaysSinceStart: days,
		Day:            days + 1,
		Week:           week,
		Allowed:        allowed,
		Cooldown:       cooldown,
		CanSmokeNow:    allowed > 0 && cooldown == 0,
		Complete:       IsComplete(week, allowed),
		XP:             xp,
		Level:          Level(xp),
		LevelProgress:  LevelProgress(xp),
		Transition:     EvaluateWeek(r.StartDate, r.CurrentWeek, now),
		Anomalies:      anomalies,
	}
}

// IsComplete reports the terminal quit condition.
func IsComplete(week, allowed int) bool {
	return week >= entities.LastWeek && allowed == 0
}
