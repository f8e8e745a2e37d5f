package scheduler

import (
	"context"
	"fmt"

	"brigadas_backend/internal/brigades/transport"
	"brigadas_backend/internal/email"
	"brigadas_backend/platform/config"
	"brigadas_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// AssignmentReconciler repairs a brigade/report pair.
type AssignmentReconciler interface {
	ReconcileAssignment(ctx context.Context, brigadeID, reportID string) (transport.ReconcileResponse, error)
}

type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	reconciler AssignmentReconciler
	sender     email.Sender
	log        *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, reconciler AssignmentReconciler, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	w := newWorker(reconciler, sender, log)
	w.server = server
	return w, nil
}

func newWorker(reconciler AssignmentReconciler, sender email.Sender, log *logger.Logger) *Worker {
	if sender == nil {
		sender = email.NoopSender{}
	}

	mux := asynq.NewServeMux()
	w := &Worker{
		mux:        mux,
		reconciler: reconciler,
		sender:     sender,
		log:        log,
	}

	mux.HandleFunc(TaskAssignmentRepair, w.handleAssignmentRepair)
	mux.HandleFunc(TaskAssignmentNotice, w.handleAssignmentNotice)
	return w
}

// Run processes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil || w.server == nil {
		return nil
	}

	if err := w.server.Start(w.mux); err != nil {
		w.log.Error("scheduler worker failed to start", "error", err)
		return err
	}
	w.log.Info("scheduler worker started")

	<-ctx.Done()
	w.server.Shutdown()
	w.log.Info("scheduler worker stopped")
	return nil
}

func (w *Worker) handleAssignmentRepair(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAssignmentRepairPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.BrigadeID == "" || payload.ReportID == "" {
		return fmt.Errorf("%w: repair payload without ids", asynq.SkipRetry)
	}

	result, err := w.reconciler.ReconcileAssignment(ctx, payload.BrigadeID, payload.ReportID)
	if err != nil {
		return err
	}

	w.log.Info("assignment repair processed",
		"brigadeId", payload.BrigadeID,
		"reportId", payload.ReportID,
		"repaired", result.Repaired,
	)
	return nil
}

func (w *Worker) handleAssignmentNotice(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAssignmentNoticePayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if payload.LeadEmail == "" {
		return nil
	}

	return w.sender.SendAssignmentNotice(ctx, payload.LeadEmail, email.AssignmentNotice{
		LeadName:    payload.LeadName,
		BrigadeName: payload.BrigadeName,
		ReportID:    payload.ReportID,
		Category:    payload.Category,
		Address:     payload.Address,
		AssignedBy:  payload.AssignedBy,
		AssignedAt:  payload.AssignedAt,
	})
}
