package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
	"github.com/goal-tracker/backend/internal/integration/email/templates"
)

// ErrWorkerRunning is returned by Run when the worker loop is already active.
var ErrWorkerRunning = errors.New("email worker already running")

// WorkerConfig holds configuration for the email worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	// Retention is how long sent jobs are kept. Zero keeps them forever.
	Retention time.Duration
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    10,
	}
}

// templateData turns the JSON stored with a job into the typed template payload.
var templateData = map[entity.EmailTemplateType]func(data map[string]any) any{
	entity.TemplateWelcome: func(data map[string]any) any {
		return templates.WelcomeData{
			UserName: getString(data, "user_name"),
			AppURL:   getString(data, "app_url"),
		}
	},
	entity.TemplateGoalReached: func(data map[string]any) any {
		return templates.GoalReachedData{
			UserName:     getString(data, "user_name"),
			GoalName:     getString(data, "goal_name"),
			TargetAmount: getString(data, "target_amount"),
			AppURL:       getString(data, "app_url"),
		}
	},
}

// Worker delivers the email outbox. Each poll claims a batch of due jobs,
// renders them and hands them to the sender.
type Worker struct {
	queue    adapter.EmailQueueRepository
	sender   adapter.EmailSender
	renderer *templates.Renderer
	logger   *slog.Logger
	cfg      WorkerConfig
	running  atomic.Bool

	lastPurge time.Time
}

// NewWorker creates a new email worker. Zero config values take the defaults.
func NewWorker(queue adapter.EmailQueueRepository, sender adapter.EmailSender, renderer *templates.Renderer, cfg WorkerConfig) *Worker {
	defaults := DefaultWorkerConfig()
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaults.PollInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.BatchSize
	}

	return &Worker{
		queue:    queue,
		sender:   sender,
		renderer: renderer,
		logger:   slog.Default().With("component", "email.worker"),
		cfg:      cfg,
	}
}

// Run polls the outbox until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrWorkerRunning
	}
	defer w.running.Store(false)

	w.logger.Info("Email worker started",
		"poll_interval", w.cfg.PollInterval,
		"batch_size", w.cfg.BatchSize,
	)

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.processOnce(ctx); err != nil {
			w.logger.Error("Failed to process email batch", "error", err)
		}
		w.maybePurge(ctx)

		select {
		case <-ctx.Done():
			w.logger.Info("Email worker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// ProcessNow delivers the jobs that are due and returns how many were sent.
func (w *Worker) ProcessNow(ctx context.Context) int {
	sent, err := w.processOnce(ctx)
	if err != nil {
		w.logger.Error("Failed to process email batch", "error", err)
	}
	return sent
}

func (w *Worker) processOnce(ctx context.Context) (int, error) {
	jobs, err := w.queue.ClaimDue(ctx, time.Now().UTC(), w.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("claim email jobs: %w", err)
	}

	sent := 0
	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		if err := w.deliver(ctx, job); err != nil {
			w.logger.Warn("Email delivery failed",
				"job_id", job.ID,
				"template", job.TemplateType,
				"status", job.Status,
				"attempts", job.Attempts,
				"error", err,
			)
			continue
		}
		sent++
	}
	return sent, nil
}

// deliver sends one claimed job and records the outcome on it.
func (w *Worker) deliver(ctx context.Context, job *entity.EmailJob) error {
	job.MarkProcessing()

	msg, err := w.render(job)
	if err != nil {
		return w.fail(ctx, job, err, true)
	}

	result, err := w.sender.Send(ctx, adapter.SendEmailInput{
		To:      job.RecipientEmail,
		Name:    job.RecipientName,
		Subject: job.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
		Tag:     string(job.TemplateType),
	})
	if err != nil {
		return w.fail(ctx, job, err, isPermanentFailure(err))
	}

	job.MarkSent(result.ProviderID)
	if err := w.queue.Update(ctx, job); err != nil {
		return fmt.Errorf("mark job sent: %w", err)
	}

	w.logger.Info("Email sent",
		"job_id", job.ID,
		"template", job.TemplateType,
		"provider_id", result.ProviderID,
	)
	return nil
}

// maybePurge drops sent jobs past the retention period, at most once a day.
func (w *Worker) maybePurge(ctx context.Context) {
	if w.cfg.Retention <= 0 || time.Since(w.lastPurge) < 24*time.Hour {
		return
	}
	w.lastPurge = time.Now()

	deleted, err := w.queue.DeleteSentBefore(ctx, time.Now().UTC().Add(-w.cfg.Retention))
	if err != nil {
		w.logger.Error("Failed to purge sent emails", "error", err)
		return
	}
	if deleted > 0 {
		w.logger.Info("Purged sent emails", "count", deleted)
	}
}

func (w *Worker) render(job *entity.EmailJob) (templates.Message, error) {
	build, ok := templateData[job.TemplateType]
	if !ok || !w.renderer.Has(string(job.TemplateType)) {
		return templates.Message{}, domainerror.NewEmailError(
			domainerror.ErrCodeInvalidTemplate,
			fmt.Sprintf("unknown template type %q", job.TemplateType),
			domainerror.ErrInvalidTemplate,
		)
	}
	msg, err := w.renderer.Render(string(job.TemplateType), build(job.TemplateData))
	if err != nil {
		return msg, domainerror.NewEmailError(domainerror.ErrCodeTemplateRenderFailed, "failed to render email", err)
	}
	return msg, nil
}

// fail records a failed attempt and returns cause. Permanent failures are
// not retried.
func (w *Worker) fail(ctx context.Context, job *entity.EmailJob, cause error, permanent bool) error {
	job.MarkFailed(cause, permanent)
	if err := w.queue.Update(ctx, job); err != nil {
		return errors.Join(cause, fmt.Errorf("record failure: %w", err))
	}
	return cause
}

func isPermanentFailure(err error) bool {
	var emailErr *domainerror.EmailError
	return errors.As(err, &emailErr) && emailErr.Code == domainerror.ErrCodePermanentEmailFailure
}

func getString(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}
