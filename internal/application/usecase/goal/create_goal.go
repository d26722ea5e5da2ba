// Package goal contains goal-related use cases.
package goal

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

// CreateGoalInput represents the input for goal creation.
type CreateGoalInput struct {
	Name         string
	Description  *string
	TargetAmount *decimal.Decimal
	TargetDate   *string
}

// CreateGoalOutput represents the output of goal creation.
type CreateGoalOutput struct {
	Goal *entity.Goal
}

// CreateGoalUseCase handles goal creation logic.
type CreateGoalUseCase struct {
	goalRepo adapter.GoalRepository
}

// NewCreateGoalUseCase creates a new CreateGoalUseCase instance.
func NewCreateGoalUseCase(goalRepo adapter.GoalRepository) *CreateGoalUseCase {
	return &CreateGoalUseCase{
		goalRepo: goalRepo,
	}
}

// Execute performs the goal creation.
func (uc *CreateGoalUseCase) Execute(ctx context.Context, input CreateGoalInput) (*CreateGoalOutput, error) {
	// Validate name
	name, err := validateName(input.Name)
	if err != nil {
		return nil, err
	}

	// Validate target amount
	if input.TargetAmount == nil {
		return nil, domainerror.NewGoalError(
			domainerror.ErrCodeMissingGoalFields,
			"target amount is required",
			domainerror.ErrInvalidTargetAmount,
		)
	}
	if err := validateTargetAmount(*input.TargetAmount); err != nil {
		return nil, err
	}

	// Parse target date if provided
	var targetDate *time.Time
	if input.TargetDate != nil && *input.TargetDate != "" {
		date, err := parseTargetDate(*input.TargetDate)
		if err != nil {
			return nil, err
		}
		targetDate = &date
	}

	// Save goal
	goal := entity.NewGoal(name, input.Description, *input.TargetAmount, targetDate)
	if err := uc.goalRepo.Create(ctx, goal); err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return &CreateGoalOutput{
		Goal: goal,
	}, nil
}
