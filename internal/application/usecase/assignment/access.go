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
	"github.com/goal-tracker/backend/internal/domain/valueobject"
)

// UserGoalView is a user goal together with its derived metrics.
type UserGoalView struct {
	UserGoal *entity.UserGoal
	Metrics  valueobject.GoalMetrics
}

func newView(userGoal *entity.UserGoal, now time.Time) UserGoalView {
	view := UserGoalView{UserGoal: userGoal}
	if userGoal.Goal != nil {
		view.Metrics = valueobject.ComputeGoalMetrics(
			userGoal.Assignment.AccumulatedAmount,
			userGoal.Goal.TargetAmount,
			userGoal.Goal.TargetDate,
			now,
		)
	}
	return view
}

func notFoundError() error {
	return domainerror.NewAssignmentError(
		domainerror.ErrCodeAssignmentNotFound,
		"user goal not found",
		domainerror.ErrAssignmentNotFound,
	)
}

func foreignUserError() error {
	return domainerror.NewAssignmentError(
		domainerror.ErrCodeForeignAssignment,
		"not allowed to access another user's goals",
		domainerror.ErrForeignAssignment,
	)
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domainerror.NewAssignmentError(
			domainerror.ErrCodeInvalidAccumulated,
			"accumulated amount must not be negative",
			domainerror.ErrInvalidAccumulated,
		)
	}
	return nil
}

// findOwned loads an assignment owned by the user. Assignments of other
// users are reported as not found.
func findOwned(ctx context.Context, repo adapter.AssignmentRepository, id, userID uuid.UUID) (*entity.UserGoal, error) {
	userGoal, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainerror.ErrAssignmentNotFound) {
			return nil, notFoundError()
		}
		return nil, fmt.Errorf("failed to find user goal: %w", err)
	}
	if userGoal.Assignment.UserID != userID {
		return nil, notFoundError()
	}
	return userGoal, nil
}
