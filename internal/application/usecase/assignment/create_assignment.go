// Package assignment contains use cases for user goals, the link between a
// user and the goal they pursue.
package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

// CreateAssignmentInput represents the input for assigning a goal.
type CreateAssignmentInput struct {
	CallerID    uuid.UUID
	UserID      uuid.UUID
	GoalID      uuid.UUID
	Accumulated *decimal.Decimal
}

// CreateAssignmentOutput represents the created user goal.
type CreateAssignmentOutput struct {
	UserGoal UserGoalView
}

// CreateAssignmentUseCase assigns a goal to a user.
type CreateAssignmentUseCase struct {
	assignmentRepo adapter.AssignmentRepository
	goalRepo       adapter.GoalRepository
	userRepo       adapter.UserRepository
	now            func() time.Time
}

// NewCreateAssignmentUseCase creates a new CreateAssignmentUseCase instance.
func NewCreateAssignmentUseCase(
	assignmentRepo adapter.AssignmentRepository,
	goalRepo adapter.GoalRepository,
	userRepo adapter.UserRepository,
) *CreateAssignmentUseCase {
	return &CreateAssignmentUseCase{
		assignmentRepo: assignmentRepo,
		goalRepo:       goalRepo,
		userRepo:       userRepo,
		now:            time.Now,
	}
}

// Execute creates the assignment. Uniqueness is decided by the insert itself;
// the ExistsForGoal precheck only gives the common case a clearer message.
func (uc *CreateAssignmentUseCase) Execute(ctx context.Context, input CreateAssignmentInput) (*CreateAssignmentOutput, error) {
	// Users can only assign goals to themselves
	if input.UserID != input.CallerID {
		return nil, foreignUserError()
	}

	// Validate initial amount
	accumulated := decimal.Zero
	if input.Accumulated != nil {
		accumulated = *input.Accumulated
	}
	if err := validateAmount(accumulated); err != nil {
		return nil, err
	}

	// Check referenced user
	if _, err := uc.userRepo.FindByID(ctx, input.UserID); err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, domainerror.NewAssignmentError(
				domainerror.ErrCodeAssignmentUserNotFound,
				"user not found",
				err,
			)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// Check referenced goal
	goal, err := uc.goalRepo.FindByID(ctx, input.GoalID)
	if err != nil {
		if errors.Is(err, domainerror.ErrGoalNotFound) {
			return nil, domainerror.NewAssignmentError(
				domainerror.ErrCodeAssignmentGoalNotFound,
				"goal not found",
				err,
			)
		}
		return nil, fmt.Errorf("failed to find goal: %w", err)
	}

	// Precheck for a readable message; the insert below stays authoritative
	assigned, err := uc.assignmentRepo.ExistsForGoal(ctx, input.GoalID)
	if err != nil {
		return nil, fmt.Errorf("failed to check goal assignment: %w", err)
	}
	if assigned {
		return nil, domainerror.NewAssignmentError(
			domainerror.ErrCodeAssignmentExists,
			"goal is already assigned to a user",
			domainerror.ErrAssignmentExists,
		)
	}

	// Insert; the unique indexes reject a duplicate pair or an already assigned goal
	assignment := entity.NewAssignment(input.UserID, input.GoalID, accumulated)
	if err := uc.assignmentRepo.Create(ctx, assignment); err != nil {
		if errors.Is(err, domainerror.ErrAssignmentExists) {
			return nil, domainerror.NewAssignmentError(
				domainerror.ErrCodeAssignmentExists,
				"goal is already assigned",
				err,
			)
		}
		return nil, fmt.Errorf("failed to create user goal: %w", err)
	}

	return &CreateAssignmentOutput{
		UserGoal: newView(&entity.UserGoal{Assignment: assignment, Goal: goal}, uc.now()),
	}, nil
}
