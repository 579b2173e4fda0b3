// Package main is the entry point for the kiranapos API server.
// It serves the local store over HTTP and runs the background sync engine
// draining the outbox to the remote store.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"kiranapos/internal/config"
	"kiranapos/internal/domain/inventory"
	"kiranapos/internal/domain/party"
	"kiranapos/internal/domain/reminder"
	"kiranapos/internal/domain/transaction"
	v1 "kiranapos/internal/http/v1"
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

	log.Info("starting kiranapos server")

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
	itemRepo := postgres.NewItemRepo(txManager)
	partyRepo := postgres.NewPartyRepo(txManager)
	txnRepo := postgres.NewTransactionRepo(txManager)
	auditRepo := postgres.NewAuditRepo(txManager)
	reminderRepo := postgres.NewReminderRepo(txManager)

	var remote syncengine.RemoteAPI
	if cfg.RemoteBaseURL != "" {
		remote = syncengine.NewHTTPRemote(cfg.RemoteBaseURL, cfg.RemoteAPIKey, cfg.RemoteTimeout)
	} else {
		log.Info("no remote configured, sync passes will be skipped")
	}

	engine := syncengine.NewEngine(outboxRepo, remote, syncengine.NewCodec(cfg.DeviceID), syncengine.Config{
		BatchSize:  cfg.SyncBatchSize,
		Debounce:   cfg.SyncDebounce,
		PollPeriod: cfg.SyncPollPeriod,
	})

	items := inventory.NewService(itemRepo, outboxRepo, txManager, engine)
	parties := party.NewService(partyRepo, outboxRepo, txManager, engine)
	reminders := reminder.NewService(reminderRepo, outboxRepo, txManager, engine)
	store := transaction.NewStore(txnRepo, items, parties, auditRepo, outboxRepo, txManager, engine)

	router := v1.NewRouter(v1.RouterConfig{
		Pool:       pool,
		Logger:     log,
		Items:      items,
		Parties:    parties,
		Store:      store,
		Reminders:  reminders,
		OutboxRepo: outboxRepo,
		Engine:     engine,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := engine.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorw("sync engine stopped", "error", err)
		}
	}()

	go func() {
		log.Infow("listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server error", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server shutdown error", "error", err)
	}

	wg.Wait()
	log.Info("server stopped")
}
