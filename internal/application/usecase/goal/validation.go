package goal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

// maxNameLength matches the goals.name column.
const maxNameLength = 255

func validateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > maxNameLength {
		return "", domainerror.NewGoalError(
			domainerror.ErrCodeInvalidGoalName,
			"name is required and must have at most 255 characters",
			domainerror.ErrInvalidGoalName,
		)
	}
	return trimmed, nil
}

func validateTargetAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domainerror.NewGoalError(
			domainerror.ErrCodeInvalidTargetAmount,
			"target amount must not be negative",
			domainerror.ErrInvalidTargetAmount,
		)
	}
	return nil
}

func parseTargetDate(value string) (time.Time, error) {
	date, err := entity.ParseTargetDate(value)
	if err != nil {
		return time.Time{}, domainerror.NewGoalError(
			domainerror.ErrCodeInvalidTargetDate,
			"target date must be formatted as YYYY-MM-DD",
			domainerror.ErrInvalidTargetDate,
		)
	}
	return date, nil
}

func goalNotFoundError() error {
	return domainerror.NewGoalError(
		domainerror.ErrCodeGoalNotFound,
		"goal not found",
		domainerror.ErrGoalNotFound,
	)
}

// findVisibleGoal loads a goal the user may act on: an unassigned goal or one
// assigned to the user. Goals of other users are reported as not found.
func findVisibleGoal(ctx context.Context, goalRepo adapter.GoalRepository, goalID, userID uuid.UUID) (*entity.Goal, error) {
	goal, err := goalRepo.FindByID(ctx, goalID)
	if err != nil {
		if errors.Is(err, domainerror.ErrGoalNotFound) {
			return nil, goalNotFoundError()
		}
		return nil, fmt.Errorf("failed to find goal: %w", err)
	}

	owner, err := goalRepo.OwnerOf(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to find goal owner: %w", err)
	}
	if owner != nil && *owner != userID {
		return nil, goalNotFoundError()
	}

	return goal, nil
}
