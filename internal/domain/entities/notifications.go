package entities

import "time"

// Notification routes used as TargetURL.
const (
	RouteHome = "/home"
	RouteWeek = "/week"
)

// Notification is a message pushed to the user outside of a conversation.
type Notification struct {
	Title     string
	Body      string
	TargetURL string
}

// UserNotifications stores the notification preferences and delivery
// bookkeeping of a user.
type UserNotifications struct {
	UserID     int64
	IsEnabled  bool
	Configured bool // the user has answered the notification prompt at least once

	// CooldownNotifiedFor is the last cigarette timestamp a "you can smoke now"
	// message was already sent for.
	CooldownNotifiedFor *time.Time
	// WeekNotified is the week a "new week available" message was already sent for.
	WeekNotified int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUserNotifications creates default preferences: enabled, not yet configured.
func NewUserNotifications(userID int64, now time.Time) *UserNotifications {
	return &UserNotifications{
		UserID:    userID,
		IsEnabled: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NotificationTarget joins everything the dispatcher needs to decide about one user.
type NotificationTarget struct {
	UserID              int64
	ChatID              int64
	Record              ProgressionRecord
	CooldownNotifiedFor *time.Time
	WeekNotified        int
}

// CooldownPending reports whether a "you can smoke now" message has not been
// sent yet for the current last cigarette.
func (t *NotificationTarget) CooldownPending() bool {
	last := t.Record.LastCigaretteAt
	if last == nil {
		return false
	}
	if t.CooldownNotifiedFor == nil {
		return true
	}
	return !t.CooldownNotifiedFor.Equal(*last)
}

// WeekPending reports whether a "new week" message has not been sent for week.
func (t *NotificationTarget) WeekPending(week int) bool {
	return week > t.WeekNotified
}
