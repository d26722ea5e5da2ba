package goal

import (
	"context"

	"github.com/google/uuid"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/domain/entity"
)

// GetGoalInput represents the input for retrieving a goal.
type GetGoalInput struct {
	GoalID uuid.UUID
	UserID uuid.UUID
}

// GetGoalOutput represents the output of retrieving a goal.
type GetGoalOutput struct {
	Goal *entity.Goal
}

// GetGoalUseCase handles retrieving a single goal.
type GetGoalUseCase struct {
	goalRepo adapter.GoalRepository
}

// NewGetGoalUseCase creates a new GetGoalUseCase instance.
func NewGetGoalUseCase(goalRepo adapter.GoalRepository) *GetGoalUseCase {
	return &GetGoalUseCase{
		goalRepo: goalRepo,
	}
}

// Execute retrieves the goal if the user may see it.
func (uc *GetGoalUseCase) Execute(ctx context.Context, input GetGoalInput) (*GetGoalOutput, error) {
	goal, err := findVisibleGoal(ctx, uc.goalRepo, input.GoalID, input.UserID)
	if err != nil {
		return nil, err
	}

	return &GetGoalOutput{
		Goal: goal,
	}, nil
}
