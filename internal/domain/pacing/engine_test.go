package pacing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
)

func TestEngineEvaluate(t *testing.T) {
	start := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	last := start.Add(2 * time.Hour)
	now := last.Add(30 * time.Minute)

	rec := entities.ProgressionRecord{
		UserID:             1,
		StartDate:          start,
		BaselineDailyCount: 20,
		CurrentWeek:        1,
		ExperiencePoints:   42,
		LastCigaretteAt:    &last,
	}

	snap := NewEngine(nil).Evaluate(rec, now)

	assert.Equal(t, 1, snap.Day)
	assert.Equal(t, 1, snap.Week)
	assert.Equal(t, 15, snap.Allowed)
	// 24h / 15 = 96 minutes between cigarettes.
	assert.Equal(t, 66*time.Minute, snap.Cooldown)
	assert.False(t, snap.CanSmokeNow)
	assert.False(t, snap.Complete)
	assert.Equal(t, 3, snap.Level)
	assert.InDelta(t, 0.04, snap.LevelProgress, 1e-9)
	assert.False(t, snap.Transition.Available)
	assert.Empty(t, snap.Anomalies)
}

func TestEngineCompletion(t *testing.T) {
	start := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	last := start.Add(40 * 24 * time.Hour)
	rec := entities.ProgressionRecord{
		StartDate:          start,
		BaselineDailyCount: 20,
		CurrentWeek:        6,
		LastCigaretteAt:    &last,
	}

	snap := NewEngine(StepPolicy{}).Evaluate(rec, last.Add(time.Minute))

	assert.Zero(t, snap.Allowed)
	assert.Zero(t, snap.Cooldown)
	assert.False(t, snap.CanSmokeNow)
	assert.True(t, snap.Complete)
}

func TestEngineClampsAndReportsAnomalies(t *testing.T) {
	start := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	rec := entities.ProgressionRecord{
		StartDate:          start,
		BaselineDailyCount: 0,
		CurrentWeek:        9,
		ExperiencePoints:   -4,
	}

	snap := NewEngine(nil).Evaluate(rec, start.Add(-time.Hour))

	require.Len(t, snap.Anomalies, 4)
	assert.Equal(t, 6, snap.Week)
	assert.Zero(t, snap.Allowed)
	assert.Equal(t, 1, snap.Level)
	assert.Zero(t, snap.XP)
	assert.Equal(t, 1, snap.Day)
}

func TestEngineLinearPolicy(t *testing.T) {
	start := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	rec := entities.ProgressionRecord{StartDate: start, BaselineDailyCount: 42, CurrentWeek: 1}

	e := NewEngine(LinearPolicy{})

	assert.Equal(t, 42, e.AllowedToday(rec, start))
	assert.Equal(t, 32, e.AllowedToday(rec, start.Add(10*24*time.Hour)))
	assert.Equal(t, PolicyLinear, e.Policy().Name())
}
