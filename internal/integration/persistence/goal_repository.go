package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
	"github.com/goal-tracker/backend/internal/integration/persistence/model"
)

// goalRepository implements the adapter.GoalRepository interface.
type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository creates a new goal repository instance.
func NewGoalRepository(db *gorm.DB) adapter.GoalRepository {
	return &goalRepository{
		db: db,
	}
}

// Create stores a new goal.
func (r *goalRepository) Create(ctx context.Context, goal *entity.Goal) error {
	return r.db.WithContext(ctx).Create(model.GoalFromEntity(goal)).Error
}

// FindByID retrieves a goal by its ID.
func (r *goalRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Goal, error) {
	var goalModel model.GoalModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&goalModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrGoalNotFound
		}
		return nil, result.Error
	}
	return goalModel.ToEntity(), nil
}

// FindByOwner retrieves the goals assigned to a user, newest assignment first.
func (r *goalRepository) FindByOwner(ctx context.Context, userID uuid.UUID) ([]*entity.Goal, error) {
	var models []model.GoalModel
	result := r.db.WithContext(ctx).
		Select("goals.*").
		Joins("JOIN user_goals ON user_goals.goal_id = goals.id").
		Where("user_goals.user_id = ?", userID).
		Order("user_goals.assigned_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	goals := make([]*entity.Goal, len(models))
	for i := range models {
		goals[i] = models[i].ToEntity()
	}
	return goals, nil
}

// OwnerOf returns the user the goal is assigned to, or nil for an unassigned goal.
func (r *goalRepository) OwnerOf(ctx context.Context, goalID uuid.UUID) (*uuid.UUID, error) {
	var assignment model.AssignmentModel
	result := r.db.WithContext(ctx).Select("user_id").Where("goal_id = ?", goalID).Limit(1).Find(&assignment)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &assignment.UserID, nil
}

// Update applies the patch and returns the stored goal.
func (r *goalRepository) Update(ctx context.Context, id uuid.UUID, patch entity.GoalPatch) (*entity.Goal, error) {
	columns := model.GoalPatchColumns(patch, time.Now().UTC())

	result := r.db.WithContext(ctx).Model(&model.GoalModel{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domainerror.ErrGoalNotFound
	}

	return r.FindByID(ctx, id)
}

// Delete removes the goal and any assignment referencing it in one transaction.
func (r *goalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("goal_id = ?", id).Delete(&model.AssignmentModel{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.GoalModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerror.ErrGoalNotFound
		}
		return nil
	})
}
