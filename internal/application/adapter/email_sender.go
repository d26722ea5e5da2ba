package adapter

import (
	"context"
)

// SendEmailInput represents the input for sending an email. Tag names the
// template the body was rendered from, for provider-side filtering.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
	Tag     string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ProviderID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send sends an email via the email provider (e.g., Resend).
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// EmailService queues notification emails. Delivery happens asynchronously.
type EmailService interface {
	// QueueWelcomeEmail queues the greeting sent after registration.
	QueueWelcomeEmail(ctx context.Context, input QueueWelcomeInput) error

	// QueueGoalReachedEmail queues the notice sent when a goal reaches 100%.
	QueueGoalReachedEmail(ctx context.Context, input QueueGoalReachedInput) error
}

// QueueWelcomeInput represents the input for queueing a welcome email.
type QueueWelcomeInput struct {
	UserEmail string
	UserName  string
}

// QueueGoalReachedInput represents the input for queueing a goal reached email.
type QueueGoalReachedInput struct {
	UserEmail    string
	UserName     string
	GoalName     string
	TargetAmount string
}
