package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
	"github.com/aliskhannn/quitflow-bot/internal/domain/pacing"
	"github.com/aliskhannn/quitflow-bot/internal/infra/postgres/repository"
)

// NotificationOptions tune the dispatcher loop.
type NotificationOptions struct {
	Schedule      string // cron spec, e.g. "@every 1m"
	BatchSize     int
	MaxConcurrent int
}

// NotificationService pushes "you can smoke now" and "new week" messages.
type NotificationService struct {
	notificationRepo NotificationRepository
	engine           *pacing.Engine
	dispatcher       NotificationDispatcher
	opts             NotificationOptions
	logger           *zap.Logger
	now              func() time.Time
}

// NewNotificationService creates a new notification service.
func NewNotificationService(
	notificationRepo NotificationRepository,
	engine *pacing.Engine,
	opts NotificationOptions,
	logger *zap.Logger,
) *NotificationService {
	if opts.Schedule == "" {
		opts.Schedule = "@every 1m"
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 10
	}

	return &NotificationService{
		notificationRepo: notificationRepo,
		engine:           engine,
		opts:             opts,
		logger:           logger,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// SetDispatcher sets the dispatcher (called after the handler is created).
func (s *NotificationService) SetDispatcher(dispatcher NotificationDispatcher) {
	s.dispatcher = dispatcher
}

// Start runs the dispatch loop until ctx is cancelled.
func (s *NotificationService) Start(ctx context.Context) {
	s.logger.Info("notification service started", zap.String("schedule", s.opts.Schedule))

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(s.opts.Schedule, func() {
		if err := s.Dispatch(ctx); err != nil {
			s.logger.Error("failed to dispatch notifications", zap.Error(err))
		}
	})
	if err != nil {
		s.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("notification service stopped")
}

// Dispatch walks all enabled users in batches and sends whatever is due.
func (s *NotificationService) Dispatch(ctx context.Context) error {
	if s.dispatcher == nil {
		return ErrDispatcherNotSet
	}

	offset := 0
	totalSent := 0
	now := s.now()

	for {
		targets, err := s.notificationRepo.ListEnabledBatch(ctx, s.opts.BatchSize, offset)
		if err != nil {
			return fmt.Errorf("list notification targets: %w", err)
		}

		if len(targets) == 0 {
			break
		}

		totalSent += s.processBatch(ctx, targets, now)

		if len(targets) < s.opts.BatchSize {
			break
		}

		offset += s.opts.BatchSize
	}

	if totalSent > 0 {
		s.logger.Info("notifications dispatched", zap.Int("total_sent", totalSent))
	}

	return nil
}

func (s *NotificationService) processBatch(ctx context.Context, targets []*entities.NotificationTarget, now time.Time) int {
	sem := make(chan struct{}, s.opts.MaxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	sent := 0

	for _, t := range targets {
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			n, err := s.processTarget(ctx, t, now)
			if err != nil {
				s.logger.Error("failed to notify user",
					zap.Int64("user_id", t.UserID),
					zap.Error(err))
			}

			mu.Lock()
			sent += n
			mu.Unlock()
		}()
	}

	wg.Wait()
	return sent
}

// processTarget sends at most one week message and one cooldown message.
func (s *NotificationService) processTarget(ctx context.Context, t *entities.NotificationTarget, now time.Time) (int, error) {
	if err := t.Record.Validate(); err != nil {
		s.logger.Warn("skipping malformed record", zap.Int64("user_id", t.UserID), zap.Error(err))
		return 0, nil
	}

	sent := 0

	tr := pacing.EvaluateWeek(t.Record.StartDate, t.Record.CurrentWeek, now)
	if tr.Available && t.WeekPending(tr.To) {
		info := entities.GetWeekInfo(tr.To)
		n := entities.Notification{
			Title:     fmt.Sprintf("Week %d is ready", tr.To),
			Body:      fmt.Sprintf("%s: %s. Confirm when you are ready to move on.", info.Title, info.Reduction),
			TargetURL: entities.RouteWeek,
		}
		if err := s.dispatcher.Send(ctx, t.ChatID, n); err != nil {
			return sent, fmt.Errorf("send week notification: %w", err)
		}
		if err := s.notificationRepo.MarkWeekNotified(ctx, t.UserID, tr.To); err != nil {
			return sent, fmt.Errorf("mark week notified: %w", err)
		}
		sent++
	}

	if t.CooldownPending() {
		snap := s.engine.Evaluate(t.Record, now)
		if snap.Complete || snap.Cooldown > 0 {
			return sent, nil
		}

		n := entities.Notification{
			Title:     "Cooldown is over",
			Body:      fmt.Sprintf("You can have your next cigarette. Today's limit: %d.", snap.Allowed),
			TargetURL: entities.RouteHome,
		}
		if err := s.dispatcher.Send(ctx, t.ChatID, n); err != nil {
			return sent, fmt.Errorf("send cooldown notification: %w", err)
		}
		if err := s.notificationRepo.MarkCooldownNotified(ctx, t.UserID, *t.Record.LastCigaretteAt); err != nil {
			return sent, fmt.Errorf("mark cooldown notified: %w", err)
		}
		sent++
	}

	return sent, nil
}

// GetOrCreate retrieves notification preferences or creates default ones.
func (s *NotificationService) GetOrCreate(ctx context.Context, userID int64) (*entities.UserNotifications, error) {
	n, err := s.notificationRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationsNotFound) {
			n = entities.NewUserNotifications(userID, s.now())
			if err := s.notificationRepo.Upsert(ctx, n); err != nil {
				return nil, fmt.Errorf("create default notifications: %w", err)
			}
			return n, nil
		}
		return nil, fmt.Errorf("get notifications: %w", err)
	}

	return n, nil
}

// Toggle flips notifications for a user and returns the new state.
func (s *NotificationService) Toggle(ctx context.Context, userID int64) (bool, error) {
	n, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return false, err
	}

	enabled := !n.IsEnabled
	if err := s.Configure(ctx, userID, enabled); err != nil {
		return false, err
	}

	return enabled, nil
}

// Configure stores an explicit answer to the notification prompt.
func (s *NotificationService) Configure(ctx context.Context, userID int64, enabled bool) error {
	n, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	n.IsEnabled = enabled
	n.Configured = true
	n.UpdatedAt = s.now()

	if err := s.notificationRepo.Upsert(ctx, n); err != nil {
		return fmt.Errorf("upsert notifications: %w", err)
	}

	s.logger.Info("notifications configured",
		zap.Int64("user_id", userID),
		zap.Bool("enabled", enabled),
	)

	return nil
}
