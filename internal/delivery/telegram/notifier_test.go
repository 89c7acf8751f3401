package telegram

import (
	"context"
	"errors"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
)

type fakeBot struct {
	sent []tgbotapi.Chattable
	err  error
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if b.err != nil {
		return tgbotapi.Message{}, b.err
	}
	b.sent = append(b.sent, c)
	return tgbotapi.Message{MessageID: len(b.sent)}, nil
}

func (b *fakeBot) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(tgbotapi.UpdatesChannel)
}

func (b *fakeBot) StopReceivingUpdates() {}

type fakeUsers struct {
	blocked []int64
}

func (u *fakeUsers) EnsureUser(context.Context, int64, int64) error { return nil }

func (u *fakeUsers) MarkBlocked(_ context.Context, userID int64) error {
	u.blocked = append(u.blocked, userID)
	return nil
}

func TestNotifierSend(t *testing.T) {
	bot := &fakeBot{}
	users := &fakeUsers{}
	n := NewNotifier(bot, users, zap.NewNop())

	err := n.Send(context.Background(), 7, entities.Notification{
		Title:     "Week 2 is ready",
		Body:      "Open the bot to move on.",
		TargetURL: entities.RouteWeek,
	})
	require.NoError(t, err)
	require.Len(t, bot.sent, 1)

	msg, ok := bot.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.Equal(t, int64(7), msg.ChatID)
	assert.Equal(t, tgbotapi.ModeMarkdownV2, msg.ParseMode)

	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.NotNil(t, kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, buildWeekCallback(weekShow), *kb.InlineKeyboard[0][0].CallbackData)
	assert.Empty(t, users.blocked)
}

func TestNotifierUnknownRouteHasNoKeyboard(t *testing.T) {
	bot := &fakeBot{}
	n := NewNotifier(bot, &fakeUsers{}, zap.NewNop())

	require.NoError(t, n.Send(context.Background(), 7, entities.Notification{Title: "Hi", TargetURL: "/elsewhere"}))

	msg := bot.sent[0].(tgbotapi.MessageConfig)
	assert.Nil(t, msg.ReplyMarkup)
}

func TestNotifierBlocked(t *testing.T) {
	bot := &fakeBot{err: &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}}
	users := &fakeUsers{}
	n := NewNotifier(bot, users, zap.NewNop())

	err := n.Send(context.Background(), 7, entities.Notification{Title: "Cooldown is over", TargetURL: entities.RouteHome})
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, users.blocked)
}

func TestNotifierSendError(t *testing.T) {
	boom := errors.New("network down")
	users := &fakeUsers{}
	n := NewNotifier(&fakeBot{err: boom}, users, zap.NewNop())

	err := n.Send(context.Background(), 7, entities.Notification{Title: "Cooldown is over", TargetURL: entities.RouteHome})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, users.blocked)
}
