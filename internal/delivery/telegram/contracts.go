package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
	"github.com/aliskhannn/quitflow-bot/internal/domain/pacing"
	"github.com/aliskhannn/quitflow-bot/internal/scheduler"
	"github.com/aliskhannn/quitflow-bot/internal/service"
	"github.com/aliskhannn/quitflow-bot/internal/storage"
)

// BotAPI is the part of *tgbotapi.BotAPI the handler uses.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type UserService interface {
	EnsureUser(ctx context.Context, userID, chatID int64) error
	MarkBlocked(ctx context.Context, userID int64) error
}

type JourneyService interface {
	Register(ctx context.Context, userID, chatID int64, baseline int, symptoms *string) (*entities.ProgressionRecord, error)
	IsRegistered(ctx context.Context, userID int64) (bool, error)
	Status(ctx context.Context, userID int64) (*service.JourneyStatus, error)
	SnapshotAt(rec entities.ProgressionRecord, now time.Time) pacing.Snapshot
	LogCigarette(ctx context.Context, userID int64, smoked bool) (*service.LogResult, error)
	LogBreathing(ctx context.Context, userID int64) (*service.LogResult, error)
	CheckWeek(ctx context.Context, userID int64) (pacing.WeekTransition, error)
	AdvanceWeek(ctx context.Context, userID int64) (*entities.ProgressionRecord, error)
	Restart(ctx context.Context, userID int64, baseline int) (*entities.ProgressionRecord, error)
}

type NotificationService interface {
	GetOrCreate(ctx context.Context, userID int64) (*entities.UserNotifications, error)
	Toggle(ctx context.Context, userID int64) (bool, error)
	Configure(ctx context.Context, userID int64, enabled bool) error
}

type PendingInputs interface {
	Expect(userID int64, kind storage.InputKind)
	Set(userID int64, in storage.PendingInput)
	Get(userID int64) (storage.PendingInput, bool)
	Clear(userID int64)
}

type LiveSessions interface {
	Start(ctx context.Context, msg storage.LiveMessage, task *scheduler.Periodic) (storage.LiveMessage, bool)
	Stop(chatID int64) (storage.LiveMessage, bool)
	Get(chatID int64) (storage.LiveMessage, bool)
	StopAll()
}
