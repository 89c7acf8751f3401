package entities

import (
	"errors"
	"fmt"
	"time"
)

// Program bounds shared by the engine and its callers.
const (
	FirstWeek   = 1
	LastWeek    = 6
	ProgramDays = 42

	MinBaseline = 1
	MaxBaseline = 100
)

var ErrMalformedRecord = errors.New("malformed progression record")

// ProgressionRecord is the single per-user source of truth for pacing decisions.
type ProgressionRecord struct {
	UserID             int64
	StartDate          time.Time  // day 0 of the program
	BaselineDailyCount int        // cigarettes per day at (re)start
	CurrentWeek        int        // 1..6, never decreases while a program is active
	ExperiencePoints   int        // lifetime counter, never decreases
	LastCigaretteAt    *time.Time // nil until the first "smoked" log
	UpdatedAt          time.Time
}

// NewProgressionRecord creates the record written at signup.
func NewProgressionRecord(userID int64, baseline int, now time.Time) (*ProgressionRecord, error) {
	r := &ProgressionRecord{
		UserID:             userID,
		StartDate:          now,
		BaselineDailyCount: baseline,
		CurrentWeek:        FirstWeek,
		ExperiencePoints:   0,
		UpdatedAt:          now,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the record invariants. Rows that fail it are rejected at scan time.
func (r *ProgressionRecord) Validate() error {
	switch {
	case r.StartDate.IsZero():
		return fmt.Errorf("%w: start date is not set", ErrMalformedRecord)
	case r.BaselineDailyCount <= 0:
		return fmt.Errorf("%w: baseline %d must be positive", ErrMalformedRecord, r.BaselineDailyCount)
	case r.CurrentWeek < FirstWeek || r.CurrentWeek > LastWeek:
		return fmt.Errorf("%w: week %d out of range", ErrMalformedRecord, r.CurrentWeek)
	case r.ExperiencePoints < 0:
		return fmt.Errorf("%w: negative experience %d", ErrMalformedRecord, r.ExperiencePoints)
	}
	return nil
}

// Credit applies the XP award for the given activity and, for a smoked log,
// moves the last cigarette timestamp.
func (r *ProgressionRecord) Credit(kind ActivityKind, at time.Time) {
	r.ExperiencePoints += kind.XP()
	if kind == ActivitySmoked {
		t := at
		r.LastCigaretteAt = &t
	}
	r.UpdatedAt = at
}

// AdvanceWeek moves the record one week forward. It never moves backwards
// and never past the last week.
func (r *ProgressionRecord) AdvanceWeek(now time.Time) bool {
	if r.CurrentWeek >= LastWeek {
		return false
	}
	r.CurrentWeek++
	r.UpdatedAt = now
	return true
}

// Restart begins a new program with a fresh baseline. XP is kept.
func (r *ProgressionRecord) Restart(baseline int, now time.Time) {
	r.BaselineDailyCount = baseline
	r.CurrentWeek = FirstWeek
	r.StartDate = now
	r.UpdatedAt = now
}

// ValidBaseline reports whether a user supplied baseline is acceptable.
func ValidBaseline(n int) bool {
	return n >= MinBaseline && n <= MaxBaseline
}

// ProgressionUpdate lists the record fields to persist. Nil fields are left untouched.
type ProgressionUpdate struct {
	StartDate          *time.Time
	BaselineDailyCount *int
	CurrentWeek        *int
	ExperiencePoints   *int
	LastCigaretteAt    *time.Time
}

// Empty reports whether the update changes nothing.
func (u ProgressionUpdate) Empty() bool {
	return u.StartDate == nil &&
		u.BaselineDailyCount == nil &&
		u.CurrentWeek == nil &&
		u.ExperiencePoints == nil &&
		u.LastCigaretteAt == nil
}
