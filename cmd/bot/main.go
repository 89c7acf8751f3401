package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/quitflow-bot/internal/config"
	"github.com/aliskhannn/quitflow-bot/internal/delivery/telegram"
	"github.com/aliskhannn/quitflow-bot/internal/domain/pacing"
	"github.com/aliskhannn/quitflow-bot/internal/infra/postgres"
	"github.com/aliskhannn/quitflow-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/quitflow-bot/internal/logger"
	"github.com/aliskhannn/quitflow-bot/internal/service"
	"github.com/aliskhannn/quitflow-bot/internal/storage"
)

// pendingInputTTL is how long the bot waits for a typed answer.
const pendingInputTTL = 30 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil {
		lg.Fatal("bot stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return err
	}
	bot.Debug = cfg.Env != "production"
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the program"},
		{Command: "status", Description: "Today's allowance and cooldown"},
		{Command: "smoked", Description: "Log a cigarette"},
		{Command: "skip", Description: "Log a skipped cigarette"},
		{Command: "breathe", Description: "Breathing exercise"},
		{Command: "week", Description: "Move to the next week"},
		{Command: "notifications", Description: "Notification settings"},
		{Command: "restart", Description: "Start over"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	dsn, err := cfg.DB.DSN()
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
		ConnectTimeout:  cfg.DB.ConnectTimeout,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.DB.Migrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			return err
		}
		lg.Info("migrations applied")
	}

	policy, err := cfg.Pacing.Policy()
	if err != nil {
		return err
	}
	engine := pacing.NewEngine(policy)
	lg.Info("pacing engine ready", zap.String("policy", policy.Name()))

	// Initialize repositories and services.
	userRepo := repository.NewUserRepository(pool)
	progressionRepo := repository.NewProgressionRepository(pool)
	activityRepo := repository.NewActivityRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)

	tr := service.NewPostgresTransactor(postgres.NewTransactor(pool))

	userService := service.NewUserService(userRepo, lg)
	journeyService := service.NewJourneyService(progressionRepo, activityRepo, tr, engine, lg)
	notificationService := service.NewNotificationService(
		notificationRepo,
		engine,
		service.NotificationOptions{
			Schedule:      cfg.Notifications.Schedule,
			BatchSize:     cfg.Notifications.BatchSize,
			MaxConcurrent: cfg.Notifications.MaxConcurrent,
		},
		lg,
	)

	handler := telegram.NewHandler(
		bot,
		lg,
		userService,
		journeyService,
		notificationService,
		storage.NewPendingInputs(pendingInputTTL),
		storage.NewLiveSessions(),
		telegram.Options{
			CountdownTick:    cfg.Countdown.Tick,
			CountdownLiveFor: cfg.Countdown.LiveFor,
			BreathingTick:    cfg.Breathing.Tick,
		},
	)

	notificationService.SetDispatcher(telegram.NewNotifier(bot, userService, lg))

	if cfg.Notifications.Enabled {
		go notificationService.Start(ctx)
	}

	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	lg.Info("shutdown signal received")
	return nil
}
