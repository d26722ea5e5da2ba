package assignment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/goal-tracker/backend/internal/application/adapter"
)

// GetAssignmentInput represents the input for reading a user goal.
type GetAssignmentInput struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

// GetAssignmentOutput represents a user goal.
type GetAssignmentOutput struct {
	UserGoal UserGoalView
}

// GetAssignmentUseCase reads one of the caller's user goals.
type GetAssignmentUseCase struct {
	assignmentRepo adapter.AssignmentRepository
	now            func() time.Time
}

// NewGetAssignmentUseCase creates a new GetAssignmentUseCase instance.
func NewGetAssignmentUseCase(assignmentRepo adapter.AssignmentRepository) *GetAssignmentUseCase {
	return &GetAssignmentUseCase{
		assignmentRepo: assignmentRepo,
		now:            time.Now,
	}
}

// Execute loads the user goal.
func (uc *GetAssignmentUseCase) Execute(ctx context.Context, input GetAssignmentInput) (*GetAssignmentOutput, error) {
	userGoal, err := findOwned(ctx, uc.assignmentRepo, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	return &GetAssignmentOutput{
		UserGoal: newView(userGoal, uc.now()),
	}, nil
}
