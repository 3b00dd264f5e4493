package scheduler

import (
	"context"
	"fmt"

	"agendai_backend/internal/reminder"
	"agendai_backend/platform/config"
	"agendai_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Worker hosts the asynq server plus the periodic scheduler that enqueues the
// reminder scan on a cron spec.
type Worker struct {
	server     *asynq.Server
	scheduler  *asynq.Scheduler
	mux        *asynq.ServeMux
	dispatcher *reminder.Dispatcher
	wa         config.WhatsAppConfig
	log        *logger.Logger
}

// NewWorker wires the asynq server and registers the periodic scan.
func NewWorker(cfg config.SchedulerConfig, wa config.WhatsAppConfig, dispatcher *reminder.Dispatcher, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
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

	sched := asynq.NewScheduler(opt, nil)
	if _, err := sched.Register(cfg.GetReminderCronSpec(), NewReminderScanTask(), asynq.Queue(queue)); err != nil {
		return nil, fmt.Errorf("register periodic scan: %w", err)
	}

	mux := asynq.NewServeMux()
	w := &Worker{
		server:     server,
		scheduler:  sched,
		mux:        mux,
		dispatcher: dispatcher,
		wa:         wa,
		log:        log,
	}

	mux.HandleFunc(TaskReminderScan, w.handleReminderScan)

	return w, nil
}

// handleReminderScan runs one dispatcher pass. An unprovisioned WhatsApp
// channel leaves everything pending rather than burning reminders.
func (w *Worker) handleReminderScan(ctx context.Context, _ *asynq.Task) error {
	if !w.wa.IsWhatsAppEnabled() {
		w.log.Warn("reminder scan skipped", "reason", "whatsapp not configured")
		return nil
	}

	summary, err := w.dispatcher.Run(ctx)
	if err != nil {
		return fmt.Errorf("reminder scan: %w", err)
	}

	w.log.Info("scheduled reminder scan",
		"total", summary.Total, "sent", summary.Sent, "errors", summary.Errors)
	return nil
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		w.scheduler.Shutdown()
		w.server.Shutdown()
	}()

	if err := w.scheduler.Start(); err != nil {
		return fmt.Errorf("start periodic scheduler: %w", err)
	}
	return w.server.Run(w.mux)
}
