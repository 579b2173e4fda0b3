// Package main is the entry point for the standalone sync worker.
// It drains the outbox on a poll interval, for deployments where the API
// server runs without a remote connection and sync is handled separately.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kiranapos/internal/config"
	"kiranapos/internal/storage/postgres"
	syncengine "kiranapos/internal/sync"
	"kiranapos/pkg/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx = logger.WithLogger(ctx, log)

	log.Info("starting kiranapos sync worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DatabaseURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	outboxRepo, err := postgres.NewOutboxRepo(txManager)
	if err != nil {
		log.Fatalw("failed to create outbox repository", "error", err)
	}

	var remote syncengine.RemoteAPI
	if cfg.RemoteBaseURL != "" {
		remote = syncengine.NewHTTPRemote(cfg.RemoteBaseURL, cfg.RemoteAPIKey, cfg.RemoteTimeout)
	} else {
		log.Warn("no remote configured, worker will idle")
	}

	engine := syncengine.NewEngine(outboxRepo, remote, syncengine.NewCodec(cfg.DeviceID), syncengine.Config{
		BatchSize:  cfg.SyncBatchSize,
		Debounce:   cfg.SyncDebounce,
		PollPeriod: cfg.SyncPollPeriod,
	})

	if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorw("sync engine stopped", "error", err)
	}
	log.Info("worker stopped")
}
