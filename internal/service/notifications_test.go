package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
)

func TestDispatchWithoutDispatcher(t *testing.T) {
	s := newMemStore()
	svc := newNotifications(s, &clock{t: testStart}, nil)

	assert.ErrorIs(t, svc.Dispatch(context.Background()), ErrDispatcherNotSet)
}

func TestDispatchCooldownOncePerCigarette(t *testing.T) {
	s, c, journey := registered(t, 24) // 18 per day, 80 minute interval
	d := &fakeDispatcher{}
	svc := newNotifications(s, c, d)
	ctx := context.Background()

	require.NoError(t, svc.Dispatch(ctx))
	assert.Empty(t, d.routes(), "never smoked")

	_, err := journey.LogCigarette(ctx, testUser, true)
	require.NoError(t, err)

	c.advance(10 * time.Minute)
	require.NoError(t, svc.Dispatch(ctx))
	assert.Empty(t, d.routes(), "cooldown still running")

	c.advance(70 * time.Minute)
	require.NoError(t, svc.Dispatch(ctx))
	require.NoError(t, svc.Dispatch(ctx))
	assert.Equal(t, []string{entities.RouteHome}, d.routes())
	assert.Equal(t, testChat, d.sent[0].ChatID)

	_, err = journey.LogCigarette(ctx, testUser, true)
	require.NoError(t, err)
	c.advance(80 * time.Minute)
	require.NoError(t, svc.Dispatch(ctx))
	assert.Equal(t, []string{entities.RouteHome, entities.RouteHome}, d.routes())
}

func TestDispatchWeekOncePerWeek(t *testing.T) {
	s, c, journey := registered(t, 20)
	d := &fakeDispatcher{}
	svc := newNotifications(s, c, d)
	ctx := context.Background()

	c.t = testStart.Add(7*24*time.Hour + time.Hour)
	require.NoError(t, svc.Dispatch(ctx))
	require.NoError(t, svc.Dispatch(ctx))

	assert.Equal(t, []string{entities.RouteWeek}, d.routes())
	assert.Contains(t, d.sent[0].Notification.Title, "Week 2")
	assert.Equal(t, 2, s.notifs[testUser].WeekNotified)

	_, err := journey.AdvanceWeek(ctx, testUser)
	require.NoError(t, err)
	require.NoError(t, svc.Dispatch(ctx))
	assert.Len(t, d.routes(), 1)
}

func TestDispatchSkipsDisabledAndBlocked(t *testing.T) {
	s, c, journey := registered(t, 20)
	ctx := context.Background()

	_, err := journey.Register(ctx, 7, 700, 20, nil)
	require.NoError(t, err)

	n := s.notifs[testUser]
	n.IsEnabled = false
	s.notifs[testUser] = n
	require.NoError(t, s.repos().Users.SetActive(ctx, 7, false))

	d := &fakeDispatcher{}
	svc := newNotifications(s, c, d)

	c.t = testStart.Add(7 * 24 * time.Hour)
	require.NoError(t, svc.Dispatch(ctx))
	assert.Empty(t, d.routes())
}

func TestDispatchPagesThroughBatches(t *testing.T) {
	s := newMemStore()
	c := &clock{t: testStart}
	journey := newJourney(s, c)
	ctx := context.Background()

	for id := int64(1); id <= 5; id++ {
		_, err := journey.Register(ctx, id, id*100, 10, nil)
		require.NoError(t, err)
	}

	d := &fakeDispatcher{}
	svc := newNotifications(s, c, d)

	c.t = testStart.Add(7 * 24 * time.Hour)
	require.NoError(t, svc.Dispatch(ctx))
	assert.Len(t, d.routes(), 5)
}

func TestDispatchRetriesAfterSendFailure(t *testing.T) {
	s, c, _ := registered(t, 20)
	d := &fakeDispatcher{err: errors.New("telegram down")}
	svc := newNotifications(s, c, d)
	ctx := context.Background()

	c.t = testStart.Add(7 * 24 * time.Hour)
	require.NoError(t, svc.Dispatch(ctx))
	assert.Zero(t, s.notifs[testUser].WeekNotified)

	d.err = nil
	require.NoError(t, svc.Dispatch(ctx))
	assert.Equal(t, []string{entities.RouteWeek}, d.routes())
}

func TestToggleAndConfigure(t *testing.T) {
	s := newMemStore()
	svc := newNotifications(s, &clock{t: testStart}, nil)
	ctx := context.Background()

	enabled, err := svc.Toggle(ctx, testUser)
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.True(t, s.notifs[testUser].Configured)

	enabled, err = svc.Toggle(ctx, testUser)
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, svc.Configure(ctx, testUser, false))
	n, err := svc.GetOrCreate(ctx, testUser)
	require.NoError(t, err)
	assert.False(t, n.IsEnabled)
}

func TestDispatchRestartKeepsCooldownAnnounced(t *testing.T) {
	s, c, journey := registered(t, 24)
	d := &fakeDispatcher{}
	svc := newNotifications(s, c, d)
	ctx := context.Background()

	_, err := journey.LogCigarette(ctx, testUser, true)
	require.NoError(t, err)
	c.advance(2 * time.Hour)
	require.NoError(t, svc.Dispatch(ctx))
	require.Equal(t, []string{entities.RouteHome}, d.routes())

	_, err = journey.Restart(ctx, testUser, 10)
	require.NoError(t, err)
	c.advance(2 * time.Hour)
	require.NoError(t, svc.Dispatch(ctx))
	assert.Equal(t, []string{entities.RouteHome}, d.routes(), "same cigarette, no second message")

	// 8 per day after restart: 3 hour interval.
	_, err = journey.LogCigarette(ctx, testUser, true)
	require.NoError(t, err)
	c.advance(3 * time.Hour)
	require.NoError(t, svc.Dispatch(ctx))
	assert.Equal(t, []string{entities.RouteHome, entities.RouteHome}, d.routes())
}

func TestDispatchSkipsMalformedRecord(t *testing.T) {
	s := newMemStore()
	c := &clock{t: testStart}
	journey := newJourney(s, c)
	ctx := context.Background()

	for id := int64(1); id <= 3; id++ {
		_, err := journey.Register(ctx, id, id*100, 10, nil)
		require.NoError(t, err)
	}

	broken := s.records[2]
	broken.CurrentWeek = 0
	s.records[2] = broken

	d := &fakeDispatcher{}
	svc := newNotifications(s, c, d)

	c.t = testStart.Add(7 * 24 * time.Hour)
	require.NoError(t, svc.Dispatch(ctx))

	chats := make([]int64, 0, len(d.sent))
	for _, n := range d.sent {
		chats = append(chats, n.ChatID)
	}
	assert.ElementsMatch(t, []int64{100, 300}, chats)
	assert.Zero(t, s.notifs[2].WeekNotified)
	assert.Equal(t, 2, s.notifs[3].WeekNotified)
}
