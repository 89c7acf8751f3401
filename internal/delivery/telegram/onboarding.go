package telegram

import (
	"context"
	"strconv"
	"strings"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
	"github.com/aliskhannn/quitflow-bot/internal/service"
	"github.com/aliskhannn/quitflow-bot/internal/storage"
)

const maxSymptomsLen = 500

// parseBaseline accepts a whole number of cigarettes per day in [1,100].
func parseBaseline(text string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || !entities.ValidBaseline(n) {
		return 0, false
	}
	return n, true
}

// normalizeSymptoms trims the free text answer. Empty answers are dropped.
func normalizeSymptoms(text string) *string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if r := []rune(text); len(r) > maxSymptomsLen {
		text = string(r[:maxSymptomsLen])
	}
	return &text
}

// handleOnboardingBaseline remembers the daily count and asks about symptoms.
func (h *Handler) handleOnboardingBaseline(userID int64, baseline, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if !entities.ValidBaseline(baseline) {
			return service.ErrInvalidBaseline
		}

		h.pending.Set(userID, storage.PendingInput{Kind: storage.InputSymptoms, Baseline: baseline})

		kb := buildSymptomsKeyboard()
		return h.reply(chatID, messageID, symptomsMessage(baseline), &kb)
	}
}

// handleOnboardingSkip finishes onboarding without symptoms.
func (h *Handler) handleOnboardingSkip(userID int64, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		in, ok := h.pending.Get(userID)
		if !ok || in.Kind != storage.InputSymptoms {
			return h.handleStart(userID)(ctx, chatID)
		}
		return h.finishOnboarding(userID, in.Baseline, "", messageID)(ctx, chatID)
	}
}

// finishOnboarding registers the program, asks about notifications once and
// shows the first status screen.
func (h *Handler) finishOnboarding(userID int64, baseline int, symptoms string, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		_, err := h.journeyService.Register(ctx, userID, chatID, baseline, normalizeSymptoms(symptoms))
		if err != nil {
			return err
		}
		h.pending.Clear(userID)

		if messageID != 0 {
			if err := h.reply(chatID, messageID, symptomsMessage(baseline), nil); err != nil {
				return err
			}
		}

		if err := h.handleStatus(userID, 0)(ctx, chatID); err != nil {
			return err
		}

		n, err := h.notificationService.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		if n.Configured {
			return nil
		}

		msg := newMessage(chatID, notifyPromptMessage())
		msg.ReplyMarkup = buildNotifyPromptKeyboard()
		return h.send(msg)
	}
}
