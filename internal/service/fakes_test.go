package service

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
	"github.com/aliskhannn/quitflow-bot/internal/domain/pacing"
	"github.com/aliskhannn/quitflow-bot/internal/infra/postgres/repository"
)

// memStore backs every fake repository. WithinTx restores it when fn fails.
type memStore struct {
	mu sync.Mutex

	users     map[int64]entities.User
	records   map[int64]entities.ProgressionRecord
	smokeLogs []entities.SmokeLog
	breathing []entities.BreathingLog
	notifs    map[int64]entities.UserNotifications

	failSmokeLog error
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[int64]entities.User),
		records: make(map[int64]entities.ProgressionRecord),
		notifs:  make(map[int64]entities.UserNotifications),
	}
}

func (s *memStore) repos() TxRepositories {
	return TxRepositories{
		Users:         &fakeUserRepo{s},
		Progression:   &fakeProgressionRepo{s},
		Activity:      &fakeActivityRepo{s},
		Notifications: &fakeNotificationRepo{s},
	}
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error {
	s.mu.Lock()
	users := maps.Clone(s.users)
	records := maps.Clone(s.records)
	smokeLogs := slices.Clone(s.smokeLogs)
	breathing := slices.Clone(s.breathing)
	notifs := maps.Clone(s.notifs)
	s.mu.Unlock()

	if err := fn(ctx, s.repos()); err != nil {
		s.mu.Lock()
		s.users, s.records, s.smokeLogs, s.breathing, s.notifs = users, records, smokeLogs, breathing, notifs
		s.mu.Unlock()
		return err
	}
	return nil
}

type fakeUserRepo struct{ s *memStore }

func (r *fakeUserRepo) Save(_ context.Context, u *entities.User) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.users[u.ID]
	if ok && u.Symptoms == nil {
		u.Symptoms = r.s.users[u.ID].Symptoms
	}
	r.s.users[u.ID] = *u
	return !ok, nil
}

func (r *fakeUserRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.users[id]
	return ok, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*entities.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) SetActive(_ context.Context, id int64, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.IsActive = active
	r.s.users[id] = u
	return nil
}

type fakeProgressionRepo struct{ s *memStore }

func (r *fakeProgressionRepo) Create(_ context.Context, rec *entities.ProgressionRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.records[rec.UserID] = *rec
	return nil
}

func (r *fakeProgressionRepo) Get(_ context.Context, id int64) (*entities.ProgressionRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.records[id]
	if !ok {
		return nil, repository.ErrProgressionNotFound
	}
	return &rec, nil
}

func (r *fakeProgressionRepo) GetForUpdate(ctx context.Context, id int64) (*entities.ProgressionRecord, error) {
	return r.Get(ctx, id)
}

func (r *fakeProgressionRepo) Update(_ context.Context, id int64, upd entities.ProgressionUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rec, ok := r.s.records[id]
	if !ok {
		return repository.ErrProgressionNotFound
	}
	if upd.StartDate != nil {
		rec.StartDate = *upd.StartDate
	}
	if upd.BaselineDailyCount != nil {
		rec.BaselineDailyCount = *upd.BaselineDailyCount
	}
	if upd.CurrentWeek != nil {
		rec.CurrentWeek = *upd.CurrentWeek
	}
	if upd.ExperiencePoints != nil {
		rec.ExperiencePoints = *upd.ExperiencePoints
	}
	if upd.LastCigaretteAt != nil {
		t := *upd.LastCigaretteAt
		rec.LastCigaretteAt = &t
	}
	r.s.records[id] = rec
	return nil
}

type fakeActivityRepo struct{ s *memStore }

func (r *fakeActivityRepo) AddSmokeLog(_ context.Context, l *entities.SmokeLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSmokeLog != nil {
		return r.s.failSmokeLog
	}
	r.s.smokeLogs = append(r.s.smokeLogs, *l)
	return nil
}

func (r *fakeActivityRepo) AddBreathingLog(_ context.Context, l *entities.BreathingLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.breathing = append(r.s.breathing, *l)
	return nil
}

func (r *fakeActivityRepo) GetStats(_ context.Context, id int64, dayStart time.Time) (*entities.ActivityStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var st entities.ActivityStats
	for _, l := range r.s.smokeLogs {
		if l.UserID != id {
			continue
		}
		today := !l.LoggedAt.Before(dayStart)
		if l.Smoked {
			st.Smoked++
			if today {
				st.SmokedToday++
			}
		} else {
			st.Skipped++
			if today {
				st.SkippedToday++
			}
		}
	}
	for _, l := range r.s.breathing {
		if l.UserID != id {
			continue
		}
		st.Breathing++
		if !l.CompletedAt.Before(dayStart) {
			st.BreathingToday++
		}
	}
	return &st, nil
}

type fakeNotificationRepo struct{ s *memStore }

func (r *fakeNotificationRepo) GetByUserID(_ context.Context, id int64) (*entities.UserNotifications, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifs[id]
	if !ok {
		return nil, repository.ErrNotificationsNotFound
	}
	return &n, nil
}

func (r *fakeNotificationRepo) Upsert(_ context.Context, n *entities.UserNotifications) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.notifs[n.UserID] = *n
	return nil
}

func (r *fakeNotificationRepo) ListEnabledBatch(_ context.Context, limit, offset int) ([]*entities.NotificationTarget, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ids := make([]int64, 0, len(r.s.notifs))
	for id, n := range r.s.notifs {
		u, ok := r.s.users[id]
		if !n.IsEnabled || !ok || !u.IsActive {
			continue
		}
		if _, ok := r.s.records[id]; !ok {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	if offset >= len(ids) {
		return nil, nil
	}
	ids = ids[offset:min(offset+limit, len(ids))]

	targets := make([]*entities.NotificationTarget, 0, len(ids))
	for _, id := range ids {
		n := r.s.notifs[id]
		targets = append(targets, &entities.NotificationTarget{
			UserID:              id,
			ChatID:              r.s.users[id].ChatID,
			Record:              r.s.records[id],
			CooldownNotifiedFor: n.CooldownNotifiedFor,
			WeekNotified:        n.WeekNotified,
		})
	}
	return targets, nil
}

func (r *fakeNotificationRepo) MarkCooldownNotified(_ context.Context, id int64, last time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifs[id]
	if !ok {
		return repository.ErrNotificationsNotFound
	}
	n.CooldownNotifiedFor = &last
	r.s.notifs[id] = n
	return nil
}

func (r *fakeNotificationRepo) MarkWeekNotified(_ context.Context, id int64, week int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifs[id]
	if !ok {
		return repository.ErrNotificationsNotFound
	}
	n.WeekNotified = max(n.WeekNotified, week)
	r.s.notifs[id] = n
	return nil
}

func (r *fakeNotificationRepo) ResetDelivery(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifs[id]
	if !ok {
		return nil
	}
	n.WeekNotified = 0
	r.s.notifs[id] = n
	return nil
}

type sentNotification struct {
	ChatID       int64
	Notification entities.Notification
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (d *fakeDispatcher) Send(_ context.Context, chatID int64, n entities.Notification) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.sent = append(d.sent, sentNotification{ChatID: chatID, Notification: n})
	return nil
}

func (d *fakeDispatcher) routes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.sent))
	for _, s := range d.sent {
		out = append(out, s.Notification.TargetURL)
	}
	return out
}

// clock is a settable time source shared by services under test.
type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

var testStart = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func newJourney(s *memStore, c *clock) *JourneyService {
	repos := s.repos()
	svc := NewJourneyService(repos.Progression, repos.Activity, s, pacing.NewEngine(nil), zap.NewNop())
	svc.now = c.now
	return svc
}

func newNotifications(s *memStore, c *clock, d NotificationDispatcher) *NotificationService {
	svc := NewNotificationService(s.repos().Notifications, pacing.NewEngine(nil), NotificationOptions{BatchSize: 2, MaxConcurrent: 2}, zap.NewNop())
	svc.now = c.now
	if d != nil {
		svc.SetDispatcher(d)
	}
	return svc
}
