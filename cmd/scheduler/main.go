package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ubiflow_gateway/internal/contacts"
	"ubiflow_gateway/internal/scheduler"
	"ubiflow_gateway/internal/ubiflow/client"
	"ubiflow_gateway/platform/cache"
	"ubiflow_gateway/platform/config"
	"ubiflow_gateway/platform/db"
	"ubiflow_gateway/platform/logger"
	"ubiflow_gateway/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "interval", cfg.GetContactSyncInterval())

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

	var store *cache.Redis
	if err := withRetry(ctx, log, "redis connection", 5, 2*time.Second, func() error {
		s, err := cache.NewRedis(ctx, cfg)
		if err != nil {
			return err
		}
		store = s
		return nil
	}); err != nil {
		log.Error("failed to connect to redis", "error", err)
		panic("failed to connect to redis: " + err.Error())
	}
	defer func() { _ = store.Close() }()

	apiClient := client.New(cfg, log, nil, store)
	contactsModule := contacts.NewModule(pool, apiClient, nil, cfg, validator.New(), log)

	syncScheduler, err := scheduler.NewContactSyncScheduler(cfg, cfg.GetContactSyncInterval(), log)
	if err != nil {
		log.Error("failed to initialize contact sync scheduler", "error", err)
		panic("failed to initialize contact sync scheduler: " + err.Error())
	}
	go func() {
		if err := syncScheduler.Run(ctx); err != nil {
			log.Error("contact sync scheduler stopped", "error", err)
			stop()
		}
	}()

	worker, err := scheduler.NewWorker(cfg, contactsModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
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
