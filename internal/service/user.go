package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
	"github.com/aliskhannn/quitflow-bot/internal/infra/postgres/repository"
)

type UserService struct {
	repository UserRepository
	logger     *zap.Logger
	now        func() time.Time
}

func NewUserService(repository UserRepository, logger *zap.Logger) *UserService {
	return &UserService{
		repository: repository,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// EnsureUser stores the user on first contact and reactivates a user who
// had blocked the bot and came back.
func (s *UserService) EnsureUser(ctx context.Context, userID, chatID int64) error {
	user := entities.NewUser(userID, chatID, s.now())

	created, err := s.repository.Save(ctx, user)
	if err != nil {
		return err
	}
	if created {
		s.logger.Info("new user", zap.Int64("user_id", userID))
	}

	return nil
}

// MarkBlocked deactivates a user the bot can no longer message.
func (s *UserService) MarkBlocked(ctx context.Context, userID int64) error {
	err := s.repository.SetActive(ctx, userID, false)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("deactivate user: %w", err)
	}

	s.logger.Info("user deactivated", zap.Int64("user_id", userID))
	return nil
}
