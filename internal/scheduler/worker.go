package scheduler

import (
	"context"
	"fmt"

	"weddinglead_backend/internal/followup/engine"
	"weddinglead_backend/internal/reports/service"
	"weddinglead_backend/platform/config"
	"weddinglead_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker consumes scheduled tasks and runs the corresponding batch.
type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	engine  *engine.Engine
	reports *service.Service
	log     *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, eng *engine.Engine, reports *service.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency <= 0 {
		concurrency = 10
	}

	queue := queueName(cfg)
	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{queue: 1},
	})

	w := &Worker{
		server:  server,
		mux:     asynq.NewServeMux(),
		engine:  eng,
		reports: reports,
		log:     log,
	}
	w.mux.HandleFunc(TaskFollowupRun, w.handleFollowupRun)
	w.mux.HandleFunc(TaskWeeklyReport, w.handleWeeklyReport)
	return w, nil
}

// Run blocks until ctx is cancelled or the server fails.
func (w *Worker) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()
	return w.server.Run(w.mux)
}

func (w *Worker) handleFollowupRun(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseFollowupRunPayload(task)
	if err != nil {
		return fmt.Errorf("parse followup payload: %w", err)
	}
	w.log.Info("scheduler: follow-up run starting", "window", payload.WindowStart)

	summary, err := w.engine.Run(ctx)
	if err != nil {
		return fmt.Errorf("followup run: %w", err)
	}
	if summary.Failed > 0 {
		w.log.Warn("scheduler: follow-up run finished with failures",
			"processed", summary.Processed, "failed", summary.Failed)
	}
	return nil
}

func (w *Worker) handleWeeklyReport(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseWeeklyReportPayload(task)
	if err != nil {
		return fmt.Errorf("parse weekly report payload: %w", err)
	}
	w.log.Info("scheduler: weekly report starting", "week", payload.Week)

	summary, err := w.reports.Run(ctx)
	if err != nil {
		return fmt.Errorf("weekly report run: %w", err)
	}
	if len(summary.Errors) > 0 {
		w.log.Warn("scheduler: weekly report finished with errors",
			"processed", summary.BusinessesProcessed, "errors", len(summary.Errors))
	}
	return nil
}
