package goal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goal-tracker/backend/internal/application/adapter"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

// DeleteGoalInput represents the input for goal deletion.
type DeleteGoalInput struct {
	GoalID uuid.UUID
	UserID uuid.UUID
}

// DeleteGoalOutput represents the output of goal deletion.
type DeleteGoalOutput struct {
	Success bool
}

// DeleteGoalUseCase handles goal deletion logic.
type DeleteGoalUseCase struct {
	goalRepo adapter.GoalRepository
}

// NewDeleteGoalUseCase creates a new DeleteGoalUseCase instance.
func NewDeleteGoalUseCase(goalRepo adapter.GoalRepository) *DeleteGoalUseCase {
	return &DeleteGoalUseCase{
		goalRepo: goalRepo,
	}
}

// Execute deletes the goal and its assignment. Deleting twice reports not found.
func (uc *DeleteGoalUseCase) Execute(ctx context.Context, input DeleteGoalInput) (*DeleteGoalOutput, error) {
	if _, err := findVisibleGoal(ctx, uc.goalRepo, input.GoalID, input.UserID); err != nil {
		return nil, err
	}

	if err := uc.goalRepo.Delete(ctx, input.GoalID); err != nil {
		if errors.Is(err, domainerror.ErrGoalNotFound) {
			return nil, goalNotFoundError()
		}
		return nil, fmt.Errorf("failed to delete goal: %w", err)
	}

	return &DeleteGoalOutput{
		Success: true,
	}, nil
}
