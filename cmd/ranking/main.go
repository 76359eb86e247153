package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/wordplan/internal/config"
	"github.com/aliskhannn/wordplan/internal/infra/postgres"
	"github.com/aliskhannn/wordplan/internal/logger"
	"github.com/aliskhannn/wordplan/internal/ranking"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}

	zapLogger, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		zapLogger.Fatal("failed to open ranking store", zap.String("store", cfg.Ranking.Store), zap.Error(err))
	}
	defer closeStore()

	server := &http.Server{
		Addr:              cfg.Ranking.Addr,
		Handler:           ranking.NewRouter(ranking.NewHandler(store, zapLogger), zapLogger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	zapLogger.Info("ranking service started",
		zap.String("addr", cfg.Ranking.Addr),
		zap.String("store", cfg.Ranking.Store),
	)

	select {
	case <-ctx.Done():
		zapLogger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err = server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Error("server stopped", zap.Error(err))
		}
	}
}

func openStore(ctx context.Context, cfg *config.Config) (ranking.Store, func(), error) {
	switch cfg.Ranking.Store {
	case "memory", "":
		return ranking.NewMemoryStore(), func() {}, nil

	case "postgres":
		if err := cfg.RequireDatabase(); err != nil {
			return nil, nil, err
		}
		pool, err := postgres.NewPool(ctx, cfg.DB.URL, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, err
		}
		s := ranking.NewPostgresStore(pool)
		if err = s.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, pool.Close, nil

	case "redis":
		s, err := ranking.NewRedisStore(ctx, cfg.Ranking.RedisAddr, cfg.Ranking.RedisKey)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("unknown ranking store %q", cfg.Ranking.Store)
	}
}
