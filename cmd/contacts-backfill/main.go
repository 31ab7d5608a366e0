package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ubiflow_gateway/internal/contacts"
	"ubiflow_gateway/internal/ubiflow/client"
	"ubiflow_gateway/platform/cache"
	"ubiflow_gateway/platform/config"
	"ubiflow_gateway/platform/db"
	"ubiflow_gateway/platform/logger"
	"ubiflow_gateway/platform/validator"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var since string

	cmd := &cobra.Command{
		Use:          "contacts-backfill",
		Short:        "Import syndication leads created after a given time",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cursor, err := parseSince(since)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cursor)
		},
	}
	cmd.Flags().StringVar(&since, "since", "", "RFC3339 timestamp; empty resumes from the newest stored contact")

	return cmd
}

func parseSince(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --since %q: %w", raw, err)
	}
	return &parsed, nil
}

func run(parent context.Context, since *time.Time) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.Env)
	log.Info("starting contacts backfill", "since", since)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = context.WithValue(ctx, logger.RunIDKey, uuid.NewString())

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := db.RunMigrations(ctx, pool); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	var store cache.Store = cache.NewMemory()
	if cfg.GetRedisURL() != "" {
		redisStore, err := cache.NewRedis(ctx, cfg)
		if err != nil {
			log.Warn("redis unavailable, using in-process cache", "error", err)
		} else {
			defer func() { _ = redisStore.Close() }()
			store = redisStore
		}
	}

	apiClient := client.New(cfg, log, nil, store)
	contactsModule := contacts.NewModule(pool, apiClient, nil, cfg, validator.New(), log)

	result, err := contactsModule.Service().Sync(ctx, since)
	if err != nil {
		log.Error("contacts backfill failed", "error", err)
		return err
	}

	log.Info("contacts backfill completed", "since", result.Since, "fetched", result.Fetched, "written", result.Written)
	return nil
}
