package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Remove the user's "clock".
	defer func() {
		if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			h.logger.Warn("callback answer error", zap.Error(err))
		}
	}()

	if cb.Message == nil {
		return
	}

	userID := cb.From.ID
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID

	fn := h.routeCallback(userID, msgID, decodeCallback(cb.Data))
	if fn == nil {
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

// routeCallback maps callback data to a handler. It returns nil for unknown data.
func (h *Handler) routeCallback(userID int64, msgID int, data callbackData) HandlerFunc {
	switch data.Action {
	case actionStatus:
		return h.handleStatus(userID, msgID)

	case actionLog:
		switch data.param(0) {
		case logSmoked:
			return h.handleLog(userID, true)
		case logSkipped:
			return h.handleLog(userID, false)
		}

	case actionCountdown:
		return h.handleCountdown(userID)

	case actionBreathe:
		return h.handleBreathe(userID)

	case actionWeek:
		switch data.param(0) {
		case weekShow:
			return h.handleWeek(userID, msgID)
		case weekConfirm:
			return h.handleWeekConfirm(userID, msgID)
		case weekLater:
			return func(ctx context.Context, chatID int64) error {
				return h.reply(chatID, msgID, md(msgWeekLater), nil)
			}
		}

	case actionOnboarding:
		switch data.param(0) {
		case onboardingBaseline:
			if n, ok := data.intParam(1); ok {
				return h.handleOnboardingBaseline(userID, n, msgID)
			}
		case onboardingSkip:
			return h.handleOnboardingSkip(userID, msgID)
		}

	case actionRestart:
		switch data.param(0) {
		case restartAsk:
			return h.handleRestartPrompt(userID, msgID)
		case restartConfirm:
			return h.handleRestartAskBaseline(userID, msgID)
		case restartCancel:
			return func(ctx context.Context, chatID int64) error {
				h.pending.Clear(userID)
				return h.reply(chatID, msgID, md(msgRestartCancelled), nil)
			}
		case restartBaseline:
			if n, ok := data.intParam(1); ok {
				return h.handleRestart(userID, n)
			}
		}

	case actionNotify:
		switch data.param(0) {
		case notifyToggle:
			return h.handleNotificationsToggle(userID, msgID)
		case notifyYes:
			return h.handleNotificationsAnswer(userID, true, msgID)
		case notifyNo:
			return h.handleNotificationsAnswer(userID, false, msgID)
		}

	case actionFeedback:
		switch a := data.param(0); a {
		case feedbackGreat, feedbackNotGreat:
			return h.handleFeedback(userID, a, msgID)
		}
	}

	return nil
}
