package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
	"github.com/aliskhannn/quitflow-bot/internal/infra/postgres"
)

var ErrNotificationsNotFound = errors.New("notification settings not found")

// NotificationRepository provides access to notification preferences and
// delivery bookkeeping.
type NotificationRepository struct {
	db postgres.DBTX
}

// NewNotificationRepository creates a new NotificationRepository with the provided database handle.
func NewNotificationRepository(db postgres.DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// GetByUserID retrieves notification settings for a user.
func (r *NotificationRepository) GetByUserID(ctx context.Context, userID int64) (*entities.UserNotifications, error) {
	query := `
		SELECT user_id, is_enabled, configured, cooldown_notified_for,
		       week_notified, created_at, updated_at
		FROM user_notifications
		WHERE user_id = $1
	`

	var n entities.UserNotifications
	var notifiedFor pgtype.Timestamptz

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&n.UserID,
		&n.IsEnabled,
		&n.Configured,
		&notifiedFor,
		&n.WeekNotified,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotificationsNotFound
		}
		return nil, fmt.Errorf("get notifications: %w", err)
	}

	if notifiedFor.Valid {
		t := notifiedFor.Time
		n.CooldownNotifiedFor = &t
	}

	return &n, nil
}

// Upsert creates or updates notification settings.
func (r *NotificationRepository) Upsert(ctx context.Context, n *entities.UserNotifications) error {
	query := `
		INSERT INTO user_notifications (
			user_id, is_enabled, configured, cooldown_notified_for,
			week_notified, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			is_enabled = EXCLUDED.is_enabled,
			configured = EXCLUDED.configured,
			cooldown_notified_for = EXCLUDED.cooldown_notified_for,
			week_notified = EXCLUDED.week_notified,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(
		ctx,
		query,
		n.UserID,
		n.IsEnabled,
		n.Configured,
		n.CooldownNotifiedFor,
		n.WeekNotified,
		n.CreatedAt,
		n.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert notifications: %w", err)
	}

	return nil
}

// ListEnabledBatch returns active users with notifications enabled, joined with
// their progression record (paginated).
func (r *NotificationRepository) ListEnabledBatch(ctx context.Context, limit, offset int) ([]*entities.NotificationTarget, error) {
	query := `
		SELECT
			u.id,
			u.chat_id,
			p.start_date,
			p.baseline_daily_count,
			p.current_week,
			p.experience_points,
			p.last_cigarette_at,
			p.updated_at,
			un.cooldown_notified_for,
			un.week_notified
		FROM user_notifications un
		INNER JOIN users u ON un.user_id = u.id
		INNER JOIN progression p ON un.user_id = p.user_id
		WHERE un.is_enabled = true
			AND u.is_active = true
		ORDER BY u.id
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list enabled notifications: %w", err)
	}
	defer rows.Close()

	var targets []*entities.NotificationTarget
	for rows.Next() {
		var t entities.NotificationTarget
		var last, notifiedFor pgtype.Timestamptz

		if err := rows.Scan(
			&t.UserID,
			&t.ChatID,
			&t.Record.StartDate,
			&t.Record.BaselineDailyCount,
			&t.Record.CurrentWeek,
			&t.Record.ExperiencePoints,
			&last,
			&t.Record.UpdatedAt,
			&notifiedFor,
			&t.WeekNotified,
		); err != nil {
			return nil, fmt.Errorf("scan notification target: %w", err)
		}

		t.Record.UserID = t.UserID
		if last.Valid {
			lt := last.Time
			t.Record.LastCigaretteAt = &lt
		}
		if notifiedFor.Valid {
			nt := notifiedFor.Time
			t.CooldownNotifiedFor = &nt
		}

		targets = append(targets, &t)
	}

	return targets, rows.Err()
}

// MarkCooldownNotified remembers the last cigarette a "you can smoke now"
// message was sent for.
func (r *NotificationRepository) MarkCooldownNotified(ctx context.Context, userID int64, lastCigaretteAt time.Time) error {
	query := `
		UPDATE user_notifications
		SET cooldown_notified_for = $1, updated_at = $2
		WHERE user_id = $3
	`

	tag, err := r.db.Exec(ctx, query, lastCigaretteAt, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("mark cooldown notified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationsNotFound
	}

	return nil
}

// MarkWeekNotified remembers the week a "new week" message was sent for.
func (r *NotificationRepository) MarkWeekNotified(ctx context.Context, userID int64, week int) error {
	query := `
		UPDATE user_notifications
		SET week_notified = GREATEST(week_notified, $1), updated_at = $2
		WHERE user_id = $3
	`

	tag, err := r.db.Exec(ctx, query, week, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("mark week notified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotificationsNotFound
	}

	return nil
}

// ResetDelivery forgets the announced week, used when a program restarts.
// The cooldown marker stays: it is keyed by the last cigarette, which a
// restart does not change.
func (r *NotificationRepository) ResetDelivery(ctx context.Context, userID int64) error {
	query := `
		UPDATE user_notifications
		SET week_notified = 0, updated_at = $1
		WHERE user_id = $2
	`

	if _, err := r.db.Exec(ctx, query, time.Now().UTC(), userID); err != nil {
		return fmt.Errorf("reset notification delivery: %w", err)
	}

	return nil
}
