package telegram

import (
	"context"
	"errors"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quitflow-bot/internal/scheduler"
	"github.com/aliskhannn/quitflow-bot/internal/service"
	"github.com/aliskhannn/quitflow-bot/internal/storage"
)

// liveEditor edits one message on every tick and skips unchanged text.
type liveEditor struct {
	h        *Handler
	chatID   int64
	msgID    int
	lastText string
}

func (e *liveEditor) edit(text string, kb *tgbotapi.InlineKeyboardMarkup) {
	if text == e.lastText && kb == nil {
		return
	}
	e.lastText = text

	edit := newEdit(e.chatID, e.msgID, text)
	edit.ReplyMarkup = kb
	if _, err := e.h.bot.Send(edit); err != nil && !isNotModified(err) {
		e.h.logger.Warn("failed to edit live message",
			zap.Int64("chat_id", e.chatID),
			zap.Error(err),
		)
	}
}

func isNotModified(err error) bool {
	var tgErr *tgbotapi.Error
	return errors.As(err, &tgErr) && strings.Contains(tgErr.Message, "message is not modified")
}

// sendLive posts the first frame and returns its message id.
func (h *Handler) sendLive(chatID int64, text string) (int, error) {
	m, err := h.bot.Send(newMessage(chatID, text))
	if err != nil {
		return 0, err
	}
	return m.MessageID, nil
}

// handleCountdown posts a cooldown message that ticks until the cooldown ends
// or the live period is over.
func (h *Handler) handleCountdown(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		st, err := h.journeyService.Status(ctx, userID)
		if err != nil {
			return err
		}

		rec := st.Record
		first := formatCountdown(st.Snapshot)
		msgID, err := h.sendLive(chatID, first)
		if err != nil {
			return err
		}
		if st.Snapshot.Cooldown == 0 {
			return nil
		}

		ed := &liveEditor{h: h, chatID: chatID, msgID: msgID, lastText: first}
		deadline := time.Now().Add(h.opts.CountdownLiveFor)
		again := buildStatusKeyboard(false)

		task := scheduler.NewPeriodic(h.opts.CountdownTick, func(_ context.Context, now time.Time) bool {
			snap := h.journeyService.SnapshotAt(rec, now.UTC())
			text := formatCountdown(snap)

			if snap.Cooldown == 0 {
				ed.edit(text, &again)
				return false
			}
			if !now.Before(deadline) {
				ed.edit(text+"\n"+italic("Live updates paused. Tap Countdown to resume."), &again)
				return false
			}

			ed.edit(text, nil)
			return true
		})

		h.sessions.Start(ctx, storage.LiveMessage{Kind: storage.SessionCountdown, ChatID: chatID, MessageID: msgID}, task)
		return nil
	}
}

// handleBreathe runs the breathing exercise in one edited message and credits
// it once the schedule completes.
func (h *Handler) handleBreathe(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		registered, err := h.journeyService.IsRegistered(ctx, userID)
		if err != nil {
			return err
		}
		if !registered {
			return service.ErrNotRegistered
		}

		sched := h.breathing
		cycles := sched.Cycles()

		first := formatBreathing(sched.At(0), cycles)
		msgID, err := h.sendLive(chatID, first)
		if err != nil {
			return err
		}

		ed := &liveEditor{h: h, chatID: chatID, msgID: msgID, lastText: first}
		start := time.Now()

		task := scheduler.NewPeriodic(h.opts.BreathingTick, func(ctx context.Context, now time.Time) bool {
			st := sched.At(now.Sub(start))
			ed.edit(formatBreathing(st, cycles), nil)
			if !st.Done {
				return true
			}

			_ = h.withErrorHandling(h.creditBreathing(userID))(ctx, chatID)
			return false
		})

		h.sessions.Start(ctx, storage.LiveMessage{Kind: storage.SessionBreathing, ChatID: chatID, MessageID: msgID}, task)
		return nil
	}
}

func (h *Handler) creditBreathing(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		res, err := h.journeyService.LogBreathing(ctx, userID)
		if err != nil {
			return err
		}

		kb := buildStatusKeyboard(res.Snapshot.Complete)
		return h.reply(chatID, 0, formatLogResult(res), &kb)
	}
}

// stopCountdown stops a running countdown; a breathing session is left alone.
func (h *Handler) stopCountdown(chatID int64) {
	if cur, ok := h.sessions.Get(chatID); ok && cur.Kind == storage.SessionCountdown {
		h.sessions.Stop(chatID)
	}
}
