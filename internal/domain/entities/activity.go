package entities

import (
	"time"

	"github.com/google/uuid"
)

// ActivityKind is a logged behavior that earns experience.
type ActivityKind string

const (
	ActivitySmoked    ActivityKind = "smoked"    // user smoked a cigarette
	ActivitySkipped   ActivityKind = "skipped"   // user skipped a permitted cigarette
	ActivityBreathing ActivityKind = "breathing" // completed breathing exercise
)

// Experience awards per activity.
const (
	XPSmoked    = 4
	XPSkipped   = 10
	XPBreathing = 5
)

// XP returns the experience awarded for the activity.
func (k ActivityKind) XP() int {
	switch k {
	case ActivitySmoked:
		return XPSmoked
	case ActivitySkipped:
		return XPSkipped
	case ActivityBreathing:
		return XPBreathing
	}
	return 0
}

// SmokeLog is an append-only record of a smoked or skipped cigarette.
type SmokeLog struct {
	ID       uuid.UUID
	UserID   int64
	LoggedAt time.Time
	Smoked   bool
}

func NewSmokeLog(userID int64, smoked bool, at time.Time) *SmokeLog {
	return &SmokeLog{
		ID:       uuid.New(),
		UserID:   userID,
		LoggedAt: at,
		Smoked:   smoked,
	}
}

// BreathingLog records a completed breathing exercise.
type BreathingLog struct {
	ID          uuid.UUID
	UserID      int64
	CompletedAt time.Time
}

func NewBreathingLog(userID int64, at time.Time) *BreathingLog {
	return &BreathingLog{
		ID:          uuid.New(),
		UserID:      userID,
		CompletedAt: at,
	}
}

// ActivityStats summarizes a user's logs.
type ActivityStats struct {
	Smoked         int
	Skipped        int
	Breathing      int
	SmokedToday    int
	SkippedToday   int
	BreathingToday int
}
