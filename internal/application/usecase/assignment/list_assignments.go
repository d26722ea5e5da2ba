package assignment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goal-tracker/backend/internal/application/adapter"
)

// ListAssignmentsInput represents the input for listing user goals.
// A nil UserID lists the caller's own goals.
type ListAssignmentsInput struct {
	CallerID uuid.UUID
	UserID   *uuid.UUID
}

// ListAssignmentsOutput represents the listed user goals.
type ListAssignmentsOutput struct {
	UserGoals []UserGoalView
}

// ListAssignmentsUseCase lists a user's goals with their progress.
type ListAssignmentsUseCase struct {
	assignmentRepo adapter.AssignmentRepository
	now            func() time.Time
}

// NewListAssignmentsUseCase creates a new ListAssignmentsUseCase instance.
func NewListAssignmentsUseCase(assignmentRepo adapter.AssignmentRepository) *ListAssignmentsUseCase {
	return &ListAssignmentsUseCase{
		assignmentRepo: assignmentRepo,
		now:            time.Now,
	}
}

// Execute lists user goals, most recently assigned first.
func (uc *ListAssignmentsUseCase) Execute(ctx context.Context, input ListAssignmentsInput) (*ListAssignmentsOutput, error) {
	userID := input.CallerID
	if input.UserID != nil {
		if *input.UserID != input.CallerID {
			return nil, foreignUserError()
		}
		userID = *input.UserID
	}

	userGoals, err := uc.assignmentRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user goals: %w", err)
	}

	now := uc.now()
	views := make([]UserGoalView, len(userGoals))
	for i, userGoal := range userGoals {
		views[i] = newView(userGoal, now)
	}

	return &ListAssignmentsOutput{
		UserGoals: views,
	}, nil
}
