package assignment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goal-tracker/backend/internal/application/adapter"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

// DeleteAssignmentInput represents the input for removing a user goal.
type DeleteAssignmentInput struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

// DeleteAssignmentOutput represents the output of removing a user goal.
type DeleteAssignmentOutput struct {
	Success bool
}

// DeleteAssignmentUseCase removes the link between a user and a goal.
// The goal itself is left for the caller to delete.
type DeleteAssignmentUseCase struct {
	assignmentRepo adapter.AssignmentRepository
}

// NewDeleteAssignmentUseCase creates a new DeleteAssignmentUseCase instance.
func NewDeleteAssignmentUseCase(assignmentRepo adapter.AssignmentRepository) *DeleteAssignmentUseCase {
	return &DeleteAssignmentUseCase{
		assignmentRepo: assignmentRepo,
	}
}

// Execute deletes the assignment.
func (uc *DeleteAssignmentUseCase) Execute(ctx context.Context, input DeleteAssignmentInput) (*DeleteAssignmentOutput, error) {
	if _, err := findOwned(ctx, uc.assignmentRepo, input.ID, input.UserID); err != nil {
		return nil, err
	}

	if err := uc.assignmentRepo.Delete(ctx, input.ID); err != nil {
		if errors.Is(err, domainerror.ErrAssignmentNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("failed to delete user goal: %w", err)
	}

	return &DeleteAssignmentOutput{
		Success: true,
	}, nil
}
