package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
	"github.com/goal-tracker/backend/internal/integration/persistence/model"
)

// emailQueueRepository implements the adapter.EmailQueueRepository interface.
type emailQueueRepository struct {
	db *gorm.DB
}

// NewEmailQueueRepository creates a new email queue repository instance.
func NewEmailQueueRepository(db *gorm.DB) adapter.EmailQueueRepository {
	return &emailQueueRepository{
		db: db,
	}
}

// Create adds a new email job to the queue.
func (r *emailQueueRepository) Create(ctx context.Context, job *entity.EmailJob) error {
	emailModel := model.EmailQueueModelFromEntity(job)
	result := r.db.WithContext(ctx).Create(emailModel)
	if result.Error != nil {
		return fmt.Errorf("%w: %w", domainerror.ErrEmailQueueFailed, result.Error)
	}
	return nil
}

// ClaimDue moves due pending jobs to processing inside one transaction, so a
// second worker polling concurrently does not pick them up again.
func (r *emailQueueRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*entity.EmailJob, error) {
	var models []model.EmailQueueModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("status = ? AND scheduled_at <= ?", entity.EmailStatusPending, now.UTC()).
			Order("scheduled_at ASC").
			Limit(limit).
			Find(&models).Error
		if err != nil || len(models) == 0 {
			return err
		}

		ids := make([]uuid.UUID, len(models))
		for i := range models {
			ids[i] = models[i].ID
			models[i].Status = string(entity.EmailStatusProcessing)
		}

		return tx.Model(&model.EmailQueueModel{}).
			Where("id IN ? AND status = ?", ids, entity.EmailStatusPending).
			Update("status", entity.EmailStatusProcessing).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to claim email jobs: %w", err)
	}

	return toEmailJobs(models), nil
}

// Update saves changes to an email job.
func (r *emailQueueRepository) Update(ctx context.Context, job *entity.EmailJob) error {
	emailModel := model.EmailQueueModelFromEntity(job)
	result := r.db.WithContext(ctx).Save(emailModel)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

// GetByRecipient retrieves the jobs queued for an email address, oldest first.
func (r *emailQueueRepository) GetByRecipient(ctx context.Context, email string) ([]*entity.EmailJob, error) {
	var models []model.EmailQueueModel
	result := r.db.WithContext(ctx).
		Where("recipient_email = ?", email).
		Order("created_at ASC").
		Find(&models)

	if result.Error != nil {
		return nil, result.Error
	}

	return toEmailJobs(models), nil
}

// DeleteSentBefore removes jobs sent before cutoff.
func (r *emailQueueRepository) DeleteSentBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status = ? AND processed_at < ?", entity.EmailStatusSent, cutoff.UTC()).
		Delete(&model.EmailQueueModel{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func toEmailJobs(models []model.EmailQueueModel) []*entity.EmailJob {
	jobs := make([]*entity.EmailJob, len(models))
	for i := range models {
		jobs[i] = models[i].ToEntity()
	}
	return jobs
}
