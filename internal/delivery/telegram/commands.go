package telegram

import (
	"context"
	"errors"
	"fmt"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
	"github.com/aliskhannn/quitflow-bot/internal/service"
	"github.com/aliskhannn/quitflow-bot/internal/storage"
)

// handleStart shows the status of a registered user or starts onboarding.
func (h *Handler) handleStart(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		registered, err := h.journeyService.IsRegistered(ctx, userID)
		if err != nil {
			return err
		}
		if registered {
			return h.handleStatus(userID, 0)(ctx, chatID)
		}

		h.pending.Expect(userID, storage.InputBaseline)

		msg := newMessage(chatID, welcomeMessage())
		msg.ReplyMarkup = buildBaselineKeyboard(buildOnboardingBaselineCallback)
		return h.send(msg)
	}
}

// handleStatus renders the home screen, editing messageID when it is set.
func (h *Handler) handleStatus(userID int64, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		st, err := h.journeyService.Status(ctx, userID)
		if err != nil {
			return err
		}

		kb := buildStatusKeyboard(st.Snapshot.Complete)
		return h.reply(chatID, messageID, formatStatus(st), &kb)
	}
}

// handleLog records a smoked or skipped cigarette.
func (h *Handler) handleLog(userID int64, smoked bool) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		res, err := h.journeyService.LogCigarette(ctx, userID, smoked)
		if err != nil {
			return err
		}

		// A running countdown was computed from the previous cigarette.
		h.stopCountdown(chatID)

		kb := buildStatusKeyboard(res.Snapshot.Complete)
		return h.reply(chatID, 0, formatLogResult(res), &kb)
	}
}

// handleWeek offers the next week or tells when it unlocks.
func (h *Handler) handleWeek(userID int64, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		tr, err := h.journeyService.CheckWeek(ctx, userID)
		if err != nil {
			return err
		}

		if tr.Available {
			kb := buildWeekConfirmKeyboard()
			return h.reply(chatID, messageID, formatWeekOffer(entities.GetWeekInfo(tr.To)), &kb)
		}

		st, err := h.journeyService.Status(ctx, userID)
		if err != nil {
			return err
		}

		kb := buildBackToStatusKeyboard()
		return h.reply(chatID, messageID, formatWeekWait(tr, st.Snapshot.DaysSinceStart), &kb)
	}
}

// handleWeekConfirm advances the week by one step.
func (h *Handler) handleWeekConfirm(userID int64, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		rec, err := h.journeyService.AdvanceWeek(ctx, userID)
		if err != nil {
			if errors.Is(err, service.ErrNoWeekTransition) {
				kb := buildBackToStatusKeyboard()
				return h.reply(chatID, messageID, md(msgNoWeekTransition), &kb)
			}
			return err
		}

		info := entities.GetWeekInfo(rec.CurrentWeek)
		if err := h.send(newMessage(chatID, bold(fmt.Sprintf("✅ %s started", info.Title)))); err != nil {
			return err
		}

		return h.handleStatus(userID, messageID)(ctx, chatID)
	}
}

// handleRestartPrompt asks for confirmation before restarting.
func (h *Handler) handleRestartPrompt(userID int64, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		registered, err := h.journeyService.IsRegistered(ctx, userID)
		if err != nil {
			return err
		}
		if !registered {
			return service.ErrNotRegistered
		}

		kb := buildRestartConfirmKeyboard()
		return h.reply(chatID, messageID, restartPromptMessage(), &kb)
	}
}

// handleRestartAskBaseline asks for the new daily count.
func (h *Handler) handleRestartAskBaseline(userID int64, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		h.pending.Expect(userID, storage.InputRestart)

		kb := buildBaselineKeyboard(buildRestartBaselineCallback)
		return h.reply(chatID, messageID, restartBaselineMessage(), &kb)
	}
}

// handleRestart starts a new program with the given baseline.
func (h *Handler) handleRestart(userID int64, baseline int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		rec, err := h.journeyService.Restart(ctx, userID, baseline)
		if err != nil {
			return err
		}
		h.pending.Clear(userID)
		h.stopCountdown(chatID)

		text := bold("🔄 New program started") + "\n" +
			md(fmt.Sprintf("Daily count: %d. Your %d XP are still yours.", rec.BaselineDailyCount, rec.ExperiencePoints))
		if err := h.send(newMessage(chatID, text)); err != nil {
			return err
		}

		return h.handleStatus(userID, 0)(ctx, chatID)
	}
}

// handleFeedback answers the end-of-program question.
func (h *Handler) handleFeedback(userID int64, answer string, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if answer == feedbackGreat {
			return h.reply(chatID, messageID, md(msgFeedbackGreat), nil)
		}

		if err := h.reply(chatID, messageID, md(msgFeedbackNotGreat), nil); err != nil {
			return err
		}
		return h.handleRestartAskBaseline(userID, 0)(ctx, chatID)
	}
}

// handleNotifications shows the notification preferences.
func (h *Handler) handleNotifications(userID int64, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		n, err := h.notificationService.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		text := msgNotifyOff
		if n.IsEnabled {
			text = msgNotifyOn
		}

		kb := buildNotifySettingsKeyboard(n.IsEnabled)
		return h.reply(chatID, messageID, md(text), &kb)
	}
}

func (h *Handler) handleNotificationsToggle(userID int64, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if _, err := h.notificationService.Toggle(ctx, userID); err != nil {
			return err
		}
		return h.handleNotifications(userID, messageID)(ctx, chatID)
	}
}

// handleNotificationsAnswer stores the answer to the onboarding prompt.
func (h *Handler) handleNotificationsAnswer(userID int64, enabled bool, messageID int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.notificationService.Configure(ctx, userID, enabled); err != nil {
			return err
		}

		text := msgNotifyOff + " You can change this with /notifications."
		if enabled {
			text = msgNotifyOn + " You can change this with /notifications."
		}
		return h.reply(chatID, messageID, md(text), nil)
	}
}

func (h *Handler) handleHelp() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newMessage(chatID, helpMessage()))
	}
}

func (h *Handler) handleUnknown() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		return h.send(newPlainMessage(chatID, msgUnknownCommand))
	}
}

// handleText routes free text to whatever answer the user owes.
func (h *Handler) handleText(userID int64, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		in, ok := h.pending.Get(userID)
		if !ok {
			return h.handleUnknown()(ctx, chatID)
		}

		switch in.Kind {
		case storage.InputBaseline:
			n, ok := parseBaseline(text)
			if !ok {
				return h.send(newPlainMessage(chatID, msgInvalidBaseline))
			}
			return h.handleOnboardingBaseline(userID, n, 0)(ctx, chatID)

		case storage.InputSymptoms:
			return h.finishOnboarding(userID, in.Baseline, text, 0)(ctx, chatID)

		case storage.InputRestart:
			n, ok := parseBaseline(text)
			if !ok {
				return h.send(newPlainMessage(chatID, msgInvalidBaseline))
			}
			return h.handleRestart(userID, n)(ctx, chatID)
		}

		return h.handleUnknown()(ctx, chatID)
	}
}
