package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/aliskhannn/wordplan/internal/catalog"
	"github.com/aliskhannn/wordplan/internal/clock"
	"github.com/aliskhannn/wordplan/internal/config"
	"github.com/aliskhannn/wordplan/internal/delivery/telegram"
	"github.com/aliskhannn/wordplan/internal/infra/postgres"
	"github.com/aliskhannn/wordplan/internal/logger"
	"github.com/aliskhannn/wordplan/internal/ranking"
	"github.com/aliskhannn/wordplan/internal/repository"
	"github.com/aliskhannn/wordplan/internal/service"
	"github.com/aliskhannn/wordplan/internal/storage"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}
	if err = cfg.RequireTelegram(); err != nil {
		log.Fatal(err)
	}
	if err = cfg.RequireDatabase(); err != nil {
		log.Fatal(err)
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zapLogger.Sync() }()

	loc, err := cfg.Location()
	if err != nil {
		zapLogger.Fatal("invalid timezone", zap.Error(err))
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		zapLogger.Fatal("failed to create bot", zap.Error(err))
	}

	if _, err = bot.Request(tgbotapi.NewSetMyCommands(telegram.Commands...)); err != nil {
		zapLogger.Warn("failed to set bot commands", zap.Error(err))
	}

	bot.Debug = cfg.Env != "production"
	zapLogger.Info("authorized on account", zap.String("username", bot.Self.UserName))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fs := afero.NewOsFs()
	books, err := catalog.Load(fs, cfg.Catalog.Path, cfg.Catalog.Sheet)
	if err != nil {
		zapLogger.Fatal("failed to load catalog", zap.String("path", cfg.Catalog.Path), zap.Error(err))
	}

	store, closeStore, err := repository.Open(ctx, repository.Options{
		Driver: cfg.Storage.Driver,
		Path:   cfg.Storage.Path,
		DSN:    cfg.DB.URL,
		Fs:     fs,
		Pool: postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		},
	})
	if err != nil {
		zapLogger.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer closeStore()

	var client service.RankingClient
	if cfg.Ranking.BaseURL != "" {
		client = ranking.NewClient(cfg.Ranking.BaseURL, cfg.Ranking.Timeout)
	}

	registry := service.NewRegistry(store, books, clock.System{}, loc, zapLogger)
	scores := service.NewScoreService(client, store, zapLogger)

	maintenance := service.NewMaintenance(registry, scores, loc, cfg.Jobs.RolloverSpec, cfg.Jobs.SyncSpec, zapLogger)
	go func() {
		if err := maintenance.Start(ctx); err != nil {
			zapLogger.Error("maintenance jobs stopped", zap.Error(err))
		}
	}()

	handler := telegram.NewHandler(
		bot,
		zapLogger,
		registry,
		scores,
		books,
		storage.NewTestRunStorage(),
	)

	reminders := service.NewReminderService(registry, store, loc, cfg.Jobs.ReminderSpec, zapLogger)
	reminders.SetNotifier(handler)
	go func() {
		if err := reminders.Start(ctx); err != nil {
			zapLogger.Error("reminder service stopped", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	if err = handler.Run(ctx, bot.GetUpdatesChan(u)); err != nil && ctx.Err() == nil {
		zapLogger.Error("telegram handler stopped", zap.Error(err))
	}

	bot.StopReceivingUpdates()
	zapLogger.Info("shutdown signal received")
}
