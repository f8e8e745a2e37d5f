package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brigadas_backend/internal/adapters/docstore"
	"brigadas_backend/internal/brigades"
	"brigadas_backend/internal/email"
	"brigadas_backend/internal/events"
	apphttp "brigadas_backend/internal/http"
	"brigadas_backend/internal/http/router"
	"brigadas_backend/internal/notification"
	"brigadas_backend/internal/scheduler"
	"brigadas_backend/platform/config"
	"brigadas_backend/platform/db"
	"brigadas_backend/platform/logger"
	"brigadas_backend/platform/validator"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	store, health, closeStore := openStore(ctx, cfg, log)
	defer closeStore()

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender := email.NewSender(cfg)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	brigadesModule := brigades.NewModule(store, eventBus, val, log, cfg)

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(sender, log)
	notificationModule.RegisterHandlers(eventBus)

	client, closeClient := initSchedulerClient(cfg, log)
	if client != nil {
		defer closeClient()
		brigadesModule.SetRepairScheduler(client)
		notificationModule.SetNoticeScheduler(client)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			brigadesModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
		eventBus.Wait()
		panic("server error: " + err.Error())
	}
	eventBus.Wait()
	log.Info("server stopped")
}

// openStore connects the document store selected by STORE_DRIVER. The
// returned health checker is nil for the memory store.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (docstore.Store, apphttp.HealthChecker, func()) {
	if cfg.GetStoreDriver() == "memory" {
		log.Warn("STORE_DRIVER=memory; brigades and reports are not persisted")
		return docstore.NewMemoryStore(), nil, func() {}
	}

	pool, err := connectWithRetry(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool)
	}); err != nil {
		pool.Close()
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	return docstore.NewPostgresStore(pool), db.NewPoolAdapter(pool), pool.Close
}

// initSchedulerClient returns nil when tasks cannot be queued. The memory
// store is never shared with the scheduler process, so it runs without one.
func initSchedulerClient(cfg *config.Config, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetStoreDriver() == "memory" {
		return nil, nil
	}
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; assignment notices are sent inline and repairs are not queued")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
