package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quitflow-bot/internal/domain/entities"
)

// Notifier delivers background notifications through the bot.
type Notifier struct {
	bot         BotAPI
	userService UserService
	logger      *zap.Logger
}

func NewNotifier(bot BotAPI, userService UserService, logger *zap.Logger) *Notifier {
	return &Notifier{bot: bot, userService: userService, logger: logger}
}

// Send renders n and maps its target route to an inline button. A chat that
// blocked the bot gets its user deactivated so the dispatcher stops picking it.
func (n *Notifier) Send(ctx context.Context, chatID int64, notification entities.Notification) error {
	msg := newMessage(chatID, formatNotification(notification))
	if kb := buildNotificationKeyboard(notification.TargetURL); kb != nil {
		msg.ReplyMarkup = *kb
	}

	_, err := n.bot.Send(msg)
	if err == nil {
		return nil
	}

	if isBlocked(err) {
		n.logger.Info("bot blocked by user", zap.Int64("chat_id", chatID))
		// Private chat ids equal user ids.
		if err := n.userService.MarkBlocked(ctx, chatID); err != nil {
			return fmt.Errorf("mark blocked: %w", err)
		}
		return nil
	}

	return fmt.Errorf("send notification: %w", err)
}

func isBlocked(err error) bool {
	var tgErr *tgbotapi.Error
	return errors.As(err, &tgErr) && tgErr.Code == http.StatusForbidden
}
