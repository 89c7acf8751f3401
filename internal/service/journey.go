package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
	"github.com/aliskhannn/quitflow-bot/internal/domain/pacing"
	"github.com/aliskhannn/quitflow-bot/internal/infra/postgres/repository"
)

// JourneyStatus is everything the home screen shows.
type JourneyStatus struct {
	Record   entities.ProgressionRecord
	Snapshot pacing.Snapshot
	Stats    entities.ActivityStats
	WeekInfo entities.WeekInfo
}

// LogResult describes the outcome of a logged activity.
type LogResult struct {
	Kind        entities.ActivityKind
	XPAwarded   int
	LevelBefore int
	LevelAfter  int
	// EarlyBy is how much cooldown was still left when a cigarette was logged.
	EarlyBy  time.Duration
	Record   entities.ProgressionRecord
	Snapshot pacing.Snapshot
}

// LeveledUp reports whether the activity crossed a level threshold.
func (r *LogResult) LeveledUp() bool {
	return r.LevelAfter > r.LevelBefore
}

// JourneyService runs the six-week program on top of the pacing engine.
type JourneyService struct {
	progressionRepo ProgressionRepository
	activityRepo    ActivityRepository
	tr              Transactor
	engine          *pacing.Engine
	logger          *zap.Logger
	now             func() time.Time
}

// NewJourneyService creates a new journey service.
func NewJourneyService(
	progressionRepo ProgressionRepository,
	activityRepo ActivityRepository,
	tr Transactor,
	engine *pacing.Engine,
	logger *zap.Logger,
) *JourneyService {
	return &JourneyService{
		progressionRepo: progressionRepo,
		activityRepo:    activityRepo,
		tr:              tr,
		engine:          engine,
		logger:          logger,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// Register starts a program for a new user.
func (s *JourneyService) Register(
	ctx context.Context,
	userID, chatID int64,
	baseline int,
	symptoms *string,
) (*entities.ProgressionRecord, error) {
	if !entities.ValidBaseline(baseline) {
		return nil, ErrInvalidBaseline
	}

	now := s.now()
	rec, err := entities.NewProgressionRecord(userID, baseline, now)
	if err != nil {
		return nil, err
	}

	err = s.tr.WithinTx(ctx, func(ctx context.Context, repos TxRepositories) error {
		_, err := repos.Progression.Get(ctx, userID)
		switch {
		case err == nil:
			return ErrAlreadyRegistered
		case !errors.Is(err, repository.ErrProgressionNotFound):
			return fmt.Errorf("get progression: %w", err)
		}

		user := entities.NewUser(userID, chatID, now)
		user.Symptoms = symptoms
		if _, err := repos.Users.Save(ctx, user); err != nil {
			return err
		}

		if err := repos.Progression.Create(ctx, rec); err != nil {
			return err
		}

		_, err = repos.Notifications.GetByUserID(ctx, userID)
		if errors.Is(err, repository.ErrNotificationsNotFound) {
			return repos.Notifications.Upsert(ctx, entities.NewUserNotifications(userID, now))
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("program started",
		zap.Int64("user_id", userID),
		zap.Int("baseline", baseline),
	)

	return rec, nil
}

// IsRegistered reports whether the user has a progression record.
func (s *JourneyService) IsRegistered(ctx context.Context, userID int64) (bool, error) {
	_, err := s.progressionRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProgressionNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Status fetches the record and derives the current pacing snapshot.
func (s *JourneyService) Status(ctx context.Context, userID int64) (*JourneyStatus, error) {
	rec, err := s.getRecord(ctx, s.progressionRepo, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	snap := s.evaluate(*rec, now)

	stats, err := s.activityRepo.GetStats(ctx, userID, startOfDay(now))
	if err != nil {
		return nil, fmt.Errorf("get activity stats: %w", err)
	}

	return &JourneyStatus{
		Record:   *rec,
		Snapshot: snap,
		Stats:    *stats,
		WeekInfo: entities.GetWeekInfo(snap.Week),
	}, nil
}

// SnapshotAt re-derives pacing values for a record already fetched by the
// caller. Live views call it on every tick instead of re-reading the store.
func (s *JourneyService) SnapshotAt(rec entities.ProgressionRecord, now time.Time) pacing.Snapshot {
	return s.engine.Evaluate(rec, now)
}

// LogCigarette records a smoked or skipped cigarette and credits experience.
// Smoking during a cooldown is recorded; the result reports how early it was.
func (s *JourneyService) LogCigarette(ctx context.Context, userID int64, smoked bool) (*LogResult, error) {
	kind := entities.ActivitySkipped
	if smoked {
		kind = entities.ActivitySmoked
	}

	return s.logActivity(ctx, userID, kind, func(ctx context.Context, repos TxRepositories, now time.Time) error {
		return repos.Activity.AddSmokeLog(ctx, entities.NewSmokeLog(userID, smoked, now))
	})
}

// LogBreathing credits a completed breathing exercise.
func (s *JourneyService) LogBreathing(ctx context.Context, userID int64) (*LogResult, error) {
	return s.logActivity(ctx, userID, entities.ActivityBreathing, func(ctx context.Context, repos TxRepositories, now time.Time) error {
		return repos.Activity.AddBreathingLog(ctx, entities.NewBreathingLog(userID, now))
	})
}

func (s *JourneyService) logActivity(
	ctx context.Context,
	userID int64,
	kind entities.ActivityKind,
	appendLog func(ctx context.Context, repos TxRepositories, now time.Time) error,
) (*LogResult, error) {
	var res *LogResult

	err := s.tr.WithinTx(ctx, func(ctx context.Context, repos TxRepositories) error {
		rec, err := s.getRecordForUpdate(ctx, repos.Progression, userID)
		if err != nil {
			return err
		}

		now := s.now()
		before := s.evaluate(*rec, now)

		if kind != entities.ActivityBreathing && before.Complete {
			return ErrProgramComplete
		}

		res = &LogResult{
			Kind:        kind,
			XPAwarded:   kind.XP(),
			LevelBefore: before.Level,
		}
		if kind == entities.ActivitySmoked {
			res.EarlyBy = before.Cooldown
		}

		rec.Credit(kind, now)

		upd := entities.ProgressionUpdate{ExperiencePoints: &rec.ExperiencePoints}
		if kind == entities.ActivitySmoked {
			upd.LastCigaretteAt = rec.LastCigaretteAt
		}
		if err := repos.Progression.Update(ctx, userID, upd); err != nil {
			return err
		}

		if err := appendLog(ctx, repos, now); err != nil {
			return err
		}

		after := s.evaluate(*rec, now)
		res.LevelAfter = after.Level
		res.Record = *rec
		res.Snapshot = after

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("activity logged",
		zap.Int64("user_id", userID),
		zap.String("kind", string(kind)),
		zap.Int("xp", res.Record.ExperiencePoints),
		zap.Duration("early_by", res.EarlyBy),
	)

	return res, nil
}

// CheckWeek reports whether a week advance is available right now.
func (s *JourneyService) CheckWeek(ctx context.Context, userID int64) (pacing.WeekTransition, error) {
	rec, err := s.getRecord(ctx, s.progressionRepo, userID)
	if err != nil {
		return pacing.WeekTransition{}, err
	}

	return pacing.EvaluateWeek(rec.StartDate, rec.CurrentWeek, s.now()), nil
}

// AdvanceWeek persists a confirmed one-step week advance.
func (s *JourneyService) AdvanceWeek(ctx context.Context, userID int64) (*entities.ProgressionRecord, error) {
	var rec *entities.ProgressionRecord

	err := s.tr.WithinTx(ctx, func(ctx context.Context, repos TxRepositories) error {
		var err error
		rec, err = s.getRecordForUpdate(ctx, repos.Progression, userID)
		if err != nil {
			return err
		}

		now := s.now()
		tr := pacing.EvaluateWeek(rec.StartDate, rec.CurrentWeek, now)
		if !tr.Available || !rec.AdvanceWeek(now) {
			return ErrNoWeekTransition
		}

		return repos.Progression.Update(ctx, userID, entities.ProgressionUpdate{CurrentWeek: &rec.CurrentWeek})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("week advanced",
		zap.Int64("user_id", userID),
		zap.Int("week", rec.CurrentWeek),
	)

	return rec, nil
}

// Restart begins a new program with a new baseline, keeping experience.
func (s *JourneyService) Restart(ctx context.Context, userID int64, baseline int) (*entities.ProgressionRecord, error) {
	if !entities.ValidBaseline(baseline) {
		return nil, ErrInvalidBaseline
	}

	var rec *entities.ProgressionRecord

	err := s.tr.WithinTx(ctx, func(ctx context.Context, repos TxRepositories) error {
		var err error
		rec, err = s.getRecordForUpdate(ctx, repos.Progression, userID)
		if err != nil {
			return err
		}

		rec.Restart(baseline, s.now())

		err = repos.Progression.Update(ctx, userID, entities.ProgressionUpdate{
			StartDate:          &rec.StartDate,
			BaselineDailyCount: &rec.BaselineDailyCount,
			CurrentWeek:        &rec.CurrentWeek,
		})
		if err != nil {
			return err
		}

		return repos.Notifications.ResetDelivery(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("program restarted",
		zap.Int64("user_id", userID),
		zap.Int("baseline", baseline),
		zap.Int("xp", rec.ExperiencePoints),
	)

	return rec, nil
}

func (s *JourneyService) getRecord(ctx context.Context, repo ProgressionRepository, userID int64) (*entities.ProgressionRecord, error) {
	rec, err := repo.Get(ctx, userID)
	return rec, mapRecordErr(err)
}

func (s *JourneyService) getRecordForUpdate(ctx context.Context, repo ProgressionRepository, userID int64) (*entities.ProgressionRecord, error) {
	rec, err := repo.GetForUpdate(ctx, userID)
	return rec, mapRecordErr(err)
}

func (s *JourneyService) evaluate(rec entities.ProgressionRecord, now time.Time) pacing.Snapshot {
	snap := s.engine.Evaluate(rec, now)
	for _, a := range snap.Anomalies {
		s.logger.Warn("pacing input clamped",
			zap.Int64("user_id", rec.UserID),
			zap.String("anomaly", a),
		)
	}
	return snap
}

func mapRecordErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrProgressionNotFound) {
		return ErrNotRegistered
	}
	return fmt.Errorf("get progression: %w", err)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
