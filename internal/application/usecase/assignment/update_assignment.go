package assignment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-tracker/backend/internal/application/adapter"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

// UpdateAssignmentInput represents the input for recording progress.
type UpdateAssignmentInput struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Accumulated *decimal.Decimal
}

// UpdateAssignmentOutput represents the updated user goal.
type UpdateAssignmentOutput struct {
	UserGoal UserGoalView
}

// UpdateAssignmentUseCase sets the accumulated amount of a user goal.
type UpdateAssignmentUseCase struct {
	assignmentRepo adapter.AssignmentRepository
	userRepo       adapter.UserRepository
	emailService   adapter.EmailService
	now            func() time.Time
}

// NewUpdateAssignmentUseCase creates a new UpdateAssignmentUseCase instance.
// emailService may be nil, in which case no goal reached email is queued.
func NewUpdateAssignmentUseCase(
	assignmentRepo adapter.AssignmentRepository,
	userRepo adapter.UserRepository,
	emailService adapter.EmailService,
) *UpdateAssignmentUseCase {
	return &UpdateAssignmentUseCase{
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		now:            time.Now,
	}
}

// Execute updates the accumulated amount. Repeating the same update is harmless.
func (uc *UpdateAssignmentUseCase) Execute(ctx context.Context, input UpdateAssignmentInput) (*UpdateAssignmentOutput, error) {
	// Validate amount
	if input.Accumulated == nil {
		return nil, domainerror.NewAssignmentError(
			domainerror.ErrCodeMissingAssignmentFields,
			"accumulated amount is required",
			domainerror.ErrInvalidAccumulated,
		)
	}
	if err := validateAmount(*input.Accumulated); err != nil {
		return nil, err
	}

	// Check ownership
	if _, err := findOwned(ctx, uc.assignmentRepo, input.ID, input.UserID); err != nil {
		return nil, err
	}

	// Update; only the write that crosses the target queues the email
	updated, reached, err := uc.assignmentRepo.UpdateAccumulated(ctx, input.ID, *input.Accumulated)
	if err != nil {
		if errors.Is(err, domainerror.ErrAssignmentNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("failed to update user goal: %w", err)
	}

	view := newView(updated, uc.now())
	if reached {
		uc.notifyGoalReached(ctx, view)
	}

	return &UpdateAssignmentOutput{
		UserGoal: view,
	}, nil
}

func (uc *UpdateAssignmentUseCase) notifyGoalReached(ctx context.Context, view UserGoalView) {
	if uc.emailService == nil {
		return
	}

	user, err := uc.userRepo.FindByID(ctx, view.UserGoal.Assignment.UserID)
	if err != nil {
		slog.Error("Failed to load user for goal reached email", "error", err, "user_id", view.UserGoal.Assignment.UserID)
		return
	}

	err = uc.emailService.QueueGoalReachedEmail(ctx, adapter.QueueGoalReachedInput{
		UserEmail:    user.Email,
		UserName:     user.Name,
		GoalName:     view.UserGoal.Goal.Name,
		TargetAmount: view.UserGoal.Goal.TargetAmount.StringFixed(2),
	})
	if err != nil {
		slog.Error("Failed to queue goal reached email", "error", err, "user_id", user.ID)
	}
}
