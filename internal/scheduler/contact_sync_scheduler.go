package scheduler

import (
	"context"
	"fmt"
	"time"

	"ubiflow_gateway/platform/config"
	"ubiflow_gateway/platform/logger"

	"github.com/hibiken/asynq"
)

const defaultContactSyncInterval = 15 * time.Minute

// ContactSyncScheduler enqueues a contact import on a fixed interval.
type ContactSyncScheduler struct {
	scheduler *asynq.Scheduler
	queue     string
	interval  time.Duration
	log       *logger.Logger
}

func NewContactSyncScheduler(cfg config.SchedulerConfig, interval time.Duration, log *logger.Logger) (*ContactSyncScheduler, error) {
	opt, err := redisOptFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = defaultContactSyncInterval
	}

	return &ContactSyncScheduler{
		scheduler: asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: time.UTC}),
		queue:     queueName(cfg),
		interval:  interval,
		log:       log,
	}, nil
}

// Run registers the periodic task and blocks until ctx is done.
func (s *ContactSyncScheduler) Run(ctx context.Context) error {
	if s == nil || s.scheduler == nil {
		return nil
	}

	task, err := NewContactSyncTask(ContactSyncPayload{})
	if err != nil {
		return err
	}

	spec := cronSpec(s.interval)
	entryID, err := s.scheduler.Register(spec, task, asynq.Queue(s.queue), asynq.Unique(s.interval))
	if err != nil {
		return fmt.Errorf("register contact sync: %w", err)
	}
	s.log.Info("contact sync scheduled", "spec", spec, "entryId", entryID)

	if err := s.scheduler.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	s.scheduler.Shutdown()
	return nil
}

func cronSpec(interval time.Duration) string {
	return "@every " + interval.String()
}
