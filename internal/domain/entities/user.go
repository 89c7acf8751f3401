package entities

import "time"

// User represents bot user.
type User struct {
	ID        int64 // Telegram user ID
	ChatID    int64
	IsActive  bool
	Symptoms  *string // optional free text collected at signup
	CreatedAt time.Time
}

func NewUser(id, chatID int64, now time.Time) *User {
	return &User{
		ID:        id,
		ChatID:    chatID,
		IsActive:  true,
		CreatedAt: now,
	}
}
