// Package email queues notification emails and delivers them through Resend.
package email

import (
	"context"
	"fmt"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

// Service handles email queueing operations.
type Service struct {
	queue      adapter.EmailQueueRepository
	appBaseURL string
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, appBaseURL string) *Service {
	return &Service{
		queue:      queue,
		appBaseURL: appBaseURL,
	}
}

// QueueWelcomeEmail queues the greeting sent after registration.
func (s *Service) QueueWelcomeEmail(ctx context.Context, input adapter.QueueWelcomeInput) error {
	templateData := map[string]any{
		"user_name": input.UserName,
		"app_url":   s.appBaseURL,
	}

	job := entity.NewEmailJob(
		entity.TemplateWelcome,
		input.UserEmail,
		input.UserName,
		"Welcome to Goal Tracker",
		templateData,
	)

	return s.enqueue(ctx, job, "welcome")
}

// QueueGoalReachedEmail queues the notice sent when a goal reaches its target.
func (s *Service) QueueGoalReachedEmail(ctx context.Context, input adapter.QueueGoalReachedInput) error {
	templateData := map[string]any{
		"user_name":     input.UserName,
		"goal_name":     input.GoalName,
		"target_amount": input.TargetAmount,
		"app_url":       s.appBaseURL,
	}

	job := entity.NewEmailJob(
		entity.TemplateGoalReached,
		input.UserEmail,
		input.UserName,
		fmt.Sprintf("You reached %s - Goal Tracker", input.GoalName),
		templateData,
	)

	return s.enqueue(ctx, job, "goal reached")
}

func (s *Service) enqueue(ctx context.Context, job *entity.EmailJob, kind string) error {
	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue "+kind+" email",
			err,
		)
	}
	return nil
}

// Ensure Service implements adapter.EmailService.
var _ adapter.EmailService = (*Service)(nil)
