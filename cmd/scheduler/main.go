package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brigadas_backend/internal/adapters/docstore"
	"brigadas_backend/internal/brigades"
	"brigadas_backend/internal/email"
	"brigadas_backend/internal/events"
	"brigadas_backend/internal/notification"
	"brigadas_backend/internal/scheduler"
	"brigadas_backend/platform/config"
	"brigadas_backend/platform/db"
	"brigadas_backend/platform/logger"
	"brigadas_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	if cfg.GetStoreDriver() != "postgres" {
		panic("scheduler requires STORE_DRIVER=postgres")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	sender := email.NewSender(cfg)

	notificationModule := notification.New(sender, log)
	notificationModule.RegisterHandlers(eventBus)

	// Worker-side brigade wiring (no HTTP handlers required).
	brigadesModule := brigades.NewModule(docstore.NewPostgresStore(pool), eventBus, validator.New(), log, cfg)

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()
	brigadesModule.SetRepairScheduler(client)
	notificationModule.SetNoticeScheduler(client)

	worker, err := scheduler.NewWorker(cfg, brigadesModule.Service(), sender, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	if err := worker.Run(ctx); err != nil {
		panic("scheduler worker failed: " + err.Error())
	}
	eventBus.Wait()
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
