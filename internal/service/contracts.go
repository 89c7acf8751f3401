package service

import (
	"context"
	"time"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
)

type UserRepository interface {
	Save(ctx context.Context, user *entities.User) (bool, error)
	Exists(ctx context.Context, userID int64) (bool, error)
	GetByID(ctx context.Context, userID int64) (*entities.User, error)
	SetActive(ctx context.Context, userID int64, active bool) error
}

// ProgressionRepository is the record store of the pacing engine.
type ProgressionRepository interface {
	Create(ctx context.Context, rec *entities.ProgressionRecord) error
	Get(ctx context.Context, userID int64) (*entities.ProgressionRecord, error)
	GetForUpdate(ctx context.Context, userID int64) (*entities.ProgressionRecord, error)
	Update(ctx context.Context, userID int64, upd entities.ProgressionUpdate) error
}

type ActivityRepository interface {
	AddSmokeLog(ctx context.Context, log *entities.SmokeLog) error
	AddBreathingLog(ctx context.Context, log *entities.BreathingLog) error
	GetStats(ctx context.Context, userID int64, dayStart time.Time) (*entities.ActivityStats, error)
}

type NotificationRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*entities.UserNotifications, error)
	Upsert(ctx context.Context, n *entities.UserNotifications) error
	ListEnabledBatch(ctx context.Context, limit, offset int) ([]*entities.NotificationTarget, error)
	MarkCooldownNotified(ctx context.Context, userID int64, lastCigaretteAt time.Time) error
	MarkWeekNotified(ctx context.Context, userID int64, week int) error
	ResetDelivery(ctx context.Context, userID int64) error
}

// NotificationDispatcher delivers notifications to users.
type NotificationDispatcher interface {
	Send(ctx context.Context, chatID int64, n entities.Notification) error
}

// TxRepositories are repositories bound to one transaction.
type TxRepositories struct {
	Users         UserRepository
	Progression   ProgressionRepository
	Activity      ActivityRepository
	Notifications NotificationRepository
}

// Transactor runs fn with repositories that share a single transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
