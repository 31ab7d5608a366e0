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

	"ubiflow_gateway/internal/contacts"
	apphttp "ubiflow_gateway/internal/http"
	"ubiflow_gateway/internal/http/router"
	"ubiflow_gateway/internal/scheduler"
	"ubiflow_gateway/internal/ubiflow"
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
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

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
	log.Info("database connection established")

	if err := db.RunMigrations(ctx, pool); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	health := map[string]apphttp.HealthChecker{"database": pool}

	store, closeStore := initCache(ctx, cfg, log)
	if closeStore != nil {
		defer closeStore()
	}
	if redisStore, ok := store.(*cache.Redis); ok {
		health["redis"] = redisStore
	}

	var enqueuer scheduler.ContactSyncEnqueuer
	if schedulerClient, closeScheduler := initSchedulerClient(cfg, log); schedulerClient != nil {
		defer closeScheduler()
		enqueuer = schedulerClient
	}

	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	apiClient := client.New(cfg, log, nil, store)

	ubiflowModule, err := ubiflow.NewModule(apiClient, val, log)
	if err != nil {
		log.Error("failed to initialize ubiflow module", "error", err)
		panic("failed to initialize ubiflow module: " + err.Error())
	}
	contactsModule := contacts.NewModule(pool, apiClient, enqueuer, cfg, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: health,
		Modules: []apphttp.Module{
			ubiflowModule,
			contactsModule,
		},
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initCache(ctx context.Context, cfg config.CacheConfig, log *logger.Logger) (cache.Store, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; using in-process cache")
		return cache.NewMemory(), nil
	}

	store, err := cache.NewRedis(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to redis cache; using in-process cache", "error", err)
		return cache.NewMemory(), nil
	}

	return store, func() {
		_ = store.Close()
	}
}

func initSchedulerClient(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; manual contact sync disabled")
		return nil, nil
	}

	schedulerClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		return nil, nil
	}

	return schedulerClient, func() {
		_ = schedulerClient.Close()
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
