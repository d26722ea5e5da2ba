package entity

import (
	"time"

	"github.com/google/uuid"
)

// EmailStatus is the delivery state of a queued email.
type EmailStatus string

const (
	EmailStatusPending    EmailStatus = "pending"
	EmailStatusProcessing EmailStatus = "processing"
	EmailStatusSent       EmailStatus = "sent"
	EmailStatusFailed     EmailStatus = "failed"
)

// EmailTemplateType names the template an email is rendered with.
type EmailTemplateType string

const (
	TemplateWelcome     EmailTemplateType = "welcome"
	TemplateGoalReached EmailTemplateType = "goal_reached"
)

// emailRetrySchedule is the wait before each retry. Its length plus the
// first attempt bounds the number of deliveries tried.
var emailRetrySchedule = []time.Duration{
	time.Minute,
	5 * time.Minute,
	30 * time.Minute,
}

// DefaultEmailMaxAttempts is the attempt budget of a new job.
var DefaultEmailMaxAttempts = len(emailRetrySchedule) + 1

// EmailJob is an outbox entry. It is written by the request that triggers the
// notification and delivered later by the email worker.
type EmailJob struct {
	ID             uuid.UUID
	TemplateType   EmailTemplateType
	RecipientEmail string
	RecipientName  string
	Subject        string
	TemplateData   map[string]any
	Status         EmailStatus
	Attempts       int
	MaxAttempts    int
	LastError      string
	ProviderID     string
	CreatedAt      time.Time
	ScheduledAt    time.Time
	ProcessedAt    *time.Time
}

// NewEmailJob queues an email for immediate delivery.
func NewEmailJob(templateType EmailTemplateType, recipientEmail, recipientName, subject string, data map[string]any) *EmailJob {
	if data == nil {
		data = map[string]any{}
	}
	now := time.Now().UTC()
	return &EmailJob{
		ID:             uuid.New(),
		TemplateType:   templateType,
		RecipientEmail: recipientEmail,
		RecipientName:  recipientName,
		Subject:        subject,
		TemplateData:   data,
		Status:         EmailStatusPending,
		MaxAttempts:    DefaultEmailMaxAttempts,
		CreatedAt:      now,
		ScheduledAt:    now,
	}
}

// MarkProcessing flags the job as claimed by a worker.
func (e *EmailJob) MarkProcessing() {
	e.Status = EmailStatusProcessing
}

// MarkSent records a successful delivery.
func (e *EmailJob) MarkSent(providerID string) {
	now := time.Now().UTC()
	e.Status = EmailStatusSent
	e.ProviderID = providerID
	e.LastError = ""
	e.ProcessedAt = &now
}

// MarkFailed records a failed attempt. The job goes back to pending with a
// later ScheduledAt unless the failure is permanent or the budget is spent.
func (e *EmailJob) MarkFailed(err error, permanent bool) {
	now := time.Now().UTC()
	e.Attempts++
	if err != nil {
		e.LastError = err.Error()
	}

	if permanent || e.Attempts >= e.MaxAttempts {
		e.Status = EmailStatusFailed
		e.ProcessedAt = &now
		return
	}

	e.Status = EmailStatusPending
	e.ScheduledAt = now.Add(RetryDelay(e.Attempts))
}

// RetryDelay returns the wait after the given number of failed attempts.
// Attempts past the schedule reuse its last step.
func RetryDelay(attempts int) time.Duration {
	if attempts < 1 {
		return 0
	}
	if attempts > len(emailRetrySchedule) {
		return emailRetrySchedule[len(emailRetrySchedule)-1]
	}
	return emailRetrySchedule[attempts-1]
}
