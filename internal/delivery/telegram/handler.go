package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quitflow-bot/internal/domain/breathing"
)

// Options tune the live messages.
type Options struct {
	CountdownTick    time.Duration
	CountdownLiveFor time.Duration
	BreathingTick    time.Duration
}

type Handler struct {
	bot                 BotAPI
	logger              *zap.Logger
	userService         UserService
	journeyService      JourneyService
	notificationService NotificationService
	pending             PendingInputs
	sessions            LiveSessions
	breathing           breathing.Schedule
	opts                Options
}

func NewHandler(
	bot BotAPI,
	logger *zap.Logger,
	userService UserService,
	journeyService JourneyService,
	notificationService NotificationService,
	pending PendingInputs,
	sessions LiveSessions,
	opts Options,
) *Handler {
	if opts.CountdownTick <= 0 {
		opts.CountdownTick = time.Second
	}
	if opts.CountdownLiveFor <= 0 {
		opts.CountdownLiveFor = 2 * time.Minute
	}
	if opts.BreathingTick <= 0 {
		opts.BreathingTick = time.Second
	}

	return &Handler{
		bot:                 bot,
		logger:              logger,
		userService:         userService,
		journeyService:      journeyService,
		notificationService: notificationService,
		pending:             pending,
		sessions:            sessions,
		breathing:           breathing.DefaultSchedule(),
		opts:                opts,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()
	defer h.sessions.StopAll()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if err := h.userService.EnsureUser(ctx, userID, chatID); err != nil {
		h.logger.Error("failed to ensure user",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	if update.Message.IsCommand() {
		h.pending.Clear(userID)

		var fn HandlerFunc
		switch update.Message.Command() {
		case "start":
			fn = h.handleStart(userID)
		case "status":
			fn = h.handleStatus(userID, 0)
		case "smoked":
			fn = h.handleLog(userID, true)
		case "skip":
			fn = h.handleLog(userID, false)
		case "breathe":
			fn = h.handleBreathe(userID)
		case "week":
			fn = h.handleWeek(userID, 0)
		case "restart":
			fn = h.handleRestartPrompt(userID, 0)
		case "notifications":
			fn = h.handleNotifications(userID, 0)
		case "help":
			fn = h.handleHelp()
		default:
			fn = h.handleUnknown()
		}

		_ = h.withErrorHandling(fn)(ctx, chatID)
		return
	}

	_ = h.withErrorHandling(h.handleText(userID, update.Message.Text))(ctx, chatID)
}

func (h *Handler) sendError(chatID int64, text string) {
	_ = h.send(newPlainMessage(chatID, text))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// reply edits messageID in place when set, otherwise sends a new message.
func (h *Handler) reply(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) error {
	if messageID != 0 {
		edit := newEdit(chatID, messageID, text)
		edit.ReplyMarkup = kb
		return h.send(edit)
	}

	msg := newMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	return h.send(msg)
}
