package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
	"github.com/goal-tracker/backend/internal/integration/persistence/model"
)

// assignmentRepository implements the adapter.AssignmentRepository interface.
type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new assignment repository instance.
func NewAssignmentRepository(db *gorm.DB) adapter.AssignmentRepository {
	return &assignmentRepository{
		db: db,
	}
}

// Create inserts the assignment. Duplicates are rejected by the unique indexes.
func (r *assignmentRepository) Create(ctx context.Context, assignment *entity.Assignment) error {
	result := r.db.WithContext(ctx).Omit("User", "Goal").Create(model.AssignmentFromEntity(assignment))
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerror.ErrAssignmentExists
		}
		return result.Error
	}
	return nil
}

// FindByID retrieves an assignment joined with its goal.
func (r *assignmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.UserGoal, error) {
	var assignmentModel model.AssignmentModel
	result := r.db.WithContext(ctx).Preload("Goal").Where("id = ?", id).First(&assignmentModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrAssignmentNotFound
		}
		return nil, result.Error
	}
	return assignmentModel.ToUserGoal(), nil
}

// FindByUser retrieves a user's assignments joined with their goals, newest first.
func (r *assignmentRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserGoal, error) {
	var models []model.AssignmentModel
	result := r.db.WithContext(ctx).
		Preload("Goal").
		Where("user_id = ?", userID).
		Order("assigned_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	userGoals := make([]*entity.UserGoal, len(models))
	for i := range models {
		userGoals[i] = models[i].ToUserGoal()
	}
	return userGoals, nil
}

// ExistsForGoal reports whether any assignment references the goal.
func (r *assignmentRepository) ExistsForGoal(ctx context.Context, goalID uuid.UUID) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&model.AssignmentModel{}).Where("goal_id = ?", goalID).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// UpdateAccumulated sets the accumulated amount of an assignment.
// The first statement only matches a row still below its goal target, which
// is how a single writer wins the crossing.
func (r *assignmentRepository) UpdateAccumulated(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*entity.UserGoal, bool, error) {
	columns := map[string]any{
		"accumulated_amount": amount,
		"updated_at":         time.Now().UTC(),
	}

	result := r.db.WithContext(ctx).
		Model(&model.AssignmentModel{}).
		Where("id = ?", id).
		Where("accumulated_amount < (SELECT target_amount FROM goals WHERE goals.id = user_goals.goal_id)").
		Updates(columns)
	if result.Error != nil {
		return nil, false, result.Error
	}
	wasBelow := result.RowsAffected > 0

	if !wasBelow {
		result = r.db.WithContext(ctx).
			Model(&model.AssignmentModel{}).
			Where("id = ?", id).
			Updates(columns)
		if result.Error != nil {
			return nil, false, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, false, domainerror.ErrAssignmentNotFound
		}
	}

	userGoal, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	reached := wasBelow && userGoal.Goal != nil && amount.GreaterThanOrEqual(userGoal.Goal.TargetAmount)
	return userGoal, reached, nil
}

// Delete removes an assignment.
func (r *assignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.AssignmentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrAssignmentNotFound
	}
	return nil
}
