package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/quitflow-bot/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// userErrors are service errors answered with a message instead of being logged.
var userErrors = []struct {
	err error
	msg string
}{
	{service.ErrNotRegistered, msgNotRegistered},
	{service.ErrInvalidBaseline, msgInvalidBaseline},
	{service.ErrProgramComplete, msgProgramComplete},
	{service.ErrNoWeekTransition, msgNoWeekTransition},
	{service.ErrAlreadyRegistered, msgAlreadyRegistered},
}

func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		for _, ue := range userErrors {
			if errors.Is(err, ue.err) {
				h.sendError(chatID, ue.msg)
				return nil
			}
		}

		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.sendError(chatID, msgInternalError)
		return nil
	}
}
