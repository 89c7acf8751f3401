package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
	"github.com/aliskhannn/quitflow-bot/internal/infra/postgres"
)

var ErrProgressionNotFound = errors.New("progression not found")

const progressionColumns = `
	user_id, start_date, baseline_daily_count, current_week,
	experience_points, last_cigarette_at, updated_at
`

// ProgressionRepository stores one progression record per user.
type ProgressionRepository struct {
	db postgres.DBTX
}

// NewProgressionRepository creates a new ProgressionRepository with the provided database handle.
func NewProgressionRepository(db postgres.DBTX) *ProgressionRepository {
	return &ProgressionRepository{db: db}
}

// Create inserts the record written at signup. An existing record is replaced,
// which makes signup retries harmless.
func (r *ProgressionRepository) Create(ctx context.Context, rec *entities.ProgressionRecord) error {
	query := `
		INSERT INTO progression (` + progressionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			start_date = EXCLUDED.start_date,
			baseline_daily_count = EXCLUDED.baseline_daily_count,
			current_week = EXCLUDED.current_week,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.Exec(
		ctx,
		query,
		rec.UserID,
		rec.StartDate,
		rec.BaselineDailyCount,
		rec.CurrentWeek,
		rec.ExperiencePoints,
		rec.LastCigaretteAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create progression: %w", err)
	}

	return nil
}

// Get retrieves the record of a user.
func (r *ProgressionRepository) Get(ctx context.Context, userID int64) (*entities.ProgressionRecord, error) {
	query := `SELECT ` + progressionColumns + ` FROM progression WHERE user_id = $1`
	return r.get(ctx, query, userID)
}

// GetForUpdate retrieves the record and locks the row until the surrounding
// transaction ends.
func (r *ProgressionRepository) GetForUpdate(ctx context.Context, userID int64) (*entities.ProgressionRecord, error) {
	query := `SELECT ` + progressionColumns + ` FROM progression WHERE user_id = $1 FOR UPDATE`
	return r.get(ctx, query, userID)
}

func (r *ProgressionRepository) get(ctx context.Context, query string, userID int64) (*entities.ProgressionRecord, error) {
	rec, err := scanProgression(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgressionNotFound
		}
		return nil, fmt.Errorf("get progression: %w", err)
	}

	return rec, nil
}

// Update persists only the fields set in upd.
func (r *ProgressionRepository) Update(ctx context.Context, userID int64, upd entities.ProgressionUpdate) error {
	if upd.Empty() {
		return nil
	}

	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.StartDate != nil {
		add("start_date", *upd.StartDate)
	}
	if upd.BaselineDailyCount != nil {
		add("baseline_daily_count", *upd.BaselineDailyCount)
	}
	if upd.CurrentWeek != nil {
		add("current_week", *upd.CurrentWeek)
	}
	if upd.ExperiencePoints != nil {
		add("experience_points", *upd.ExperiencePoints)
	}
	if upd.LastCigaretteAt != nil {
		add("last_cigarette_at", *upd.LastCigaretteAt)
	}
	add("updated_at", time.Now().UTC())

	args = append(args, userID)
	query := fmt.Sprintf(
		"UPDATE progression SET %s WHERE user_id = $%d",
		strings.Join(sets, ", "),
		len(args),
	)

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update progression: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProgressionNotFound
	}

	return nil
}

func scanProgression(row pgx.Row) (*entities.ProgressionRecord, error) {
	var rec entities.ProgressionRecord
	var last pgtype.Timestamptz

	if err := row.Scan(
		&rec.UserID,
		&rec.StartDate,
		&rec.BaselineDailyCount,
		&rec.CurrentWeek,
		&rec.ExperiencePoints,
		&last,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if last.Valid {
		t := last.Time
		rec.LastCigaretteAt = &t
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return &rec, nil
}
