package scheduler

import (
	"context"
	"fmt"
	"time"

	"ubiflow_gateway/internal/contacts/service"
	"ubiflow_gateway/platform/config"
	"ubiflow_gateway/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// ContactSyncer runs one contact import.
type ContactSyncer interface {
	Sync(ctx context.Context, since *time.Time) (service.SyncResult, error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	contacts ContactSyncer
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, contacts ContactSyncer, log *logger.Logger) (*Worker, error) {
	opt, err := redisOptFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 2
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		contacts: contacts,
		log:      log,
	}

	mux.HandleFunc(TaskContactSync, w.handleContactSync)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleContactSync(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseContactSyncPayload(task)
	if err != nil {
		return fmt.Errorf("parse contact sync payload: %v: %w", err, asynq.SkipRetry)
	}

	ctx = context.WithValue(ctx, logger.RunIDKey, uuid.NewString())
	_, err = w.contacts.Sync(ctx, payload.Since)
	return err
}
