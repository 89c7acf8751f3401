package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func validRecord() ProgressionRecord {
	return ProgressionRecord{
		UserID:             1,
		StartDate:          recordStart,
		BaselineDailyCount: 20,
		CurrentWeek:        FirstWeek,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *ProgressionRecord)
		ok     bool
	}{
		{"valid", func(r *ProgressionRecord) {}, true},
		{"last week", func(r *ProgressionRecord) { r.CurrentWeek = LastWeek }, true},
		{"zero start date", func(r *ProgressionRecord) { r.StartDate = time.Time{} }, false},
		{"zero baseline", func(r *ProgressionRecord) { r.BaselineDailyCount = 0 }, false},
		{"negative baseline", func(r *ProgressionRecord) { r.BaselineDailyCount = -3 }, false},
		{"week zero", func(r *ProgressionRecord) { r.CurrentWeek = 0 }, false},
		{"week seven", func(r *ProgressionRecord) { r.CurrentWeek = LastWeek + 1 }, false},
		{"negative xp", func(r *ProgressionRecord) { r.ExperiencePoints = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord()
			tt.mutate(&r)

			err := r.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestNewProgressionRecord(t *testing.T) {
	r, err := NewProgressionRecord(1, 20, recordStart)
	require.NoError(t, err)
	assert.Equal(t, FirstWeek, r.CurrentWeek)
	assert.Equal(t, recordStart, r.StartDate)
	assert.Zero(t, r.ExperiencePoints)
	assert.Nil(t, r.LastCigaretteAt)

	_, err = NewProgressionRecord(1, 0, recordStart)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestCredit(t *testing.T) {
	r := validRecord()
	at := recordStart.Add(time.Hour)

	r.Credit(ActivitySkipped, at)
	assert.Equal(t, XPSkipped, r.ExperiencePoints)
	assert.Nil(t, r.LastCigaretteAt)

	r.Credit(ActivitySmoked, at)
	assert.Equal(t, XPSkipped+XPSmoked, r.ExperiencePoints)
	require.NotNil(t, r.LastCigaretteAt)
	assert.Equal(t, at, *r.LastCigaretteAt)
}

func TestAdvanceWeekStopsAtLastWeek(t *testing.T) {
	r := validRecord()
	for week := FirstWeek + 1; week <= LastWeek; week++ {
		assert.True(t, r.AdvanceWeek(recordStart))
		assert.Equal(t, week, r.CurrentWeek)
	}
	assert.False(t, r.AdvanceWeek(recordStart))
	assert.Equal(t, LastWeek, r.CurrentWeek)
}

func TestRestartKeepsExperience(t *testing.T) {
	r := validRecord()
	r.CurrentWeek = 4
	r.ExperiencePoints = 120
	last := recordStart.Add(time.Hour)
	r.LastCigaretteAt = &last

	now := recordStart.Add(30 * 24 * time.Hour)
	r.Restart(12, now)

	assert.Equal(t, FirstWeek, r.CurrentWeek)
	assert.Equal(t, 12, r.BaselineDailyCount)
	assert.Equal(t, now, r.StartDate)
	assert.Equal(t, 120, r.ExperiencePoints)
	assert.Equal(t, &last, r.LastCigaretteAt)
	assert.NoError(t, r.Validate())
}

func TestValidBaseline(t *testing.T) {
	assert.True(t, ValidBaseline(MinBaseline))
	assert.True(t, ValidBaseline(MaxBaseline))
	assert.False(t, ValidBaseline(0))
	assert.False(t, ValidBaseline(MaxBaseline+1))
}
