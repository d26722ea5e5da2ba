package goal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

// UpdateGoalInput represents a partial goal update.
// Nullable fields distinguish "absent" from "set to null".
type UpdateGoalInput struct {
	GoalID       uuid.UUID
	UserID       uuid.UUID
	Name         *string
	Description  entity.Nullable[string]
	TargetAmount *decimal.Decimal
	TargetDate   entity.Nullable[string]
}

// UpdateGoalOutput represents the output of goal update.
type UpdateGoalOutput struct {
	Goal *entity.Goal
}

// UpdateGoalUseCase handles goal update logic.
type UpdateGoalUseCase struct {
	goalRepo adapter.GoalRepository
}

// NewUpdateGoalUseCase creates a new UpdateGoalUseCase instance.
func NewUpdateGoalUseCase(goalRepo adapter.GoalRepository) *UpdateGoalUseCase {
	return &UpdateGoalUseCase{
		goalRepo: goalRepo,
	}
}

// Execute performs the goal update.
func (uc *UpdateGoalUseCase) Execute(ctx context.Context, input UpdateGoalInput) (*UpdateGoalOutput, error) {
	// Build and validate the patch
	patch, err := buildPatch(input)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeEmptyGoalUpdate,
			"no fields to update",
			domainerror.ErrEmptyGoalUpdate,
		)
	}

	// Check that the goal exists and is visible to the user
	if _, err := findVisibleGoal(ctx, uc.goalRepo, input.GoalID, input.UserID); err != nil {
		return nil, err
	}

	// Apply the patch
	goal, err := uc.goalRepo.Update(ctx, input.GoalID, patch)
	if err != nil {
		if errors.Is(err, domainerror.ErrGoalNotFound) {
			return nil, goalNotFoundError()
		}
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	return &UpdateGoalOutput{
		Goal: goal,
	}, nil
}

func buildPatch(input UpdateGoalInput) (entity.GoalPatch, error) {
	var patch entity.GoalPatch

	if input.Name != nil {
		name, err := validateName(*input.Name)
		if err != nil {
			return patch, err
		}
		patch.Name = &name
	}

	patch.Description = input.Description

	if input.TargetAmount != nil {
		if err := validateTargetAmount(*input.TargetAmount); err != nil {
			return patch, err
		}
		patch.TargetAmount = input.TargetAmount
	}

	if input.TargetDate.Set {
		patch.TargetDate.Set = true
		if input.TargetDate.Value != nil && *input.TargetDate.Value != "" {
			date, err := parseTargetDate(*input.TargetDate.Value)
			if err != nil {
				return patch, err
			}
			patch.TargetDate.Value = &date
		}
	}

	return patch, nil
}
