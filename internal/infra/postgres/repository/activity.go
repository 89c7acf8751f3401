package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
	"github.com/aliskhannn/quitflow-bot/internal/infra/postgres"
)

// ActivityRepository appends smoke and breathing logs.
type ActivityRepository struct {
	db postgres.DBTX
}

// NewActivityRepository creates a new ActivityRepository with the provided database handle.
func NewActivityRepository(db postgres.DBTX) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// AddSmokeLog stores a smoked or skipped cigarette.
func (r *ActivityRepository) AddSmokeLog(ctx context.Context, log *entities.SmokeLog) error {
	query := `
		INSERT INTO smoke_logs (id, user_id, logged_at, smoked)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.Exec(ctx, query, log.ID, log.UserID, log.LoggedAt, log.Smoked); err != nil {
		return fmt.Errorf("add smoke log: %w", err)
	}

	return nil
}

// AddBreathingLog stores a completed breathing exercise.
func (r *ActivityRepository) AddBreathingLog(ctx context.Context, log *entities.BreathingLog) error {
	query := `
		INSERT INTO breathing_logs (id, user_id, completed_at)
		VALUES ($1, $2, $3)
	`

	if _, err := r.db.Exec(ctx, query, log.ID, log.UserID, log.CompletedAt); err != nil {
		return fmt.Errorf("add breathing log: %w", err)
	}

	return nil
}

// GetStats counts all logs of a user, and the ones logged since dayStart.
func (r *ActivityRepository) GetStats(ctx context.Context, userID int64, dayStart time.Time) (*entities.ActivityStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE smoked),
			COUNT(*) FILTER (WHERE NOT smoked),
			COUNT(*) FILTER (WHERE smoked AND logged_at >= $2),
			COUNT(*) FILTER (WHERE NOT smoked AND logged_at >= $2),
			(SELECT COUNT(*) FROM breathing_logs WHERE user_id = $1),
			(SELECT COUNT(*) FROM breathing_logs WHERE user_id = $1 AND completed_at >= $2)
		FROM smoke_logs
		WHERE user_id = $1
	`

	var stats entities.ActivityStats
	err := r.db.QueryRow(ctx, query, userID, dayStart).Scan(
		&stats.Smoked,
		&stats.Skipped,
		&stats.SmokedToday,
		&stats.SkippedToday,
		&stats.Breathing,
		&stats.BreathingToday,
	)
	if err != nil {
		return nil, fmt.Errorf("get activity stats: %w", err)
	}

	return &stats, nil
}
