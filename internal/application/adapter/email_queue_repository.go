package adapter

import (
	"context"
	"time"

	"github.com/goal-tracker/backend/internal/domain/entity"
)

// EmailQueueRepository is the outbox of notification emails.
type EmailQueueRepository interface {
	// Create adds a new email job to the queue.
	Create(ctx context.Context, job *entity.EmailJob) error

	// ClaimDue moves up to limit pending jobs scheduled at or before now to
	// processing and returns them, oldest schedule first.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*entity.EmailJob, error)

	// Update saves changes to an email job.
	Update(ctx context.Context, job *entity.EmailJob) error

	// GetByRecipient retrieves the jobs queued for an email address, oldest first.
	GetByRecipient(ctx context.Context, email string) ([]*entity.EmailJob, error)

	// DeleteSentBefore removes jobs sent before cutoff and returns how many went.
	DeleteSentBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
