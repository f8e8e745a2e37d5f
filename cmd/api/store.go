package main

import (
	"context"
	"time"

	"brigadas_backend/platform/config"
	"brigadas_backend/platform/db"
	"brigadas_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func connectWithRetry(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	})
	return pool, err
}
