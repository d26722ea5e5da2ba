package adapter

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-tracker/backend/internal/domain/entity"
)

// AssignmentRepository defines the interface for user-goal assignment persistence.
type AssignmentRepository interface {
	// Create inserts an assignment. Uniqueness is enforced on insert, not checked beforehand.
	Create(ctx context.Context, assignment *entity.Assignment) error

	// FindByID retrieves an assignment joined with its goal.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.UserGoal, error)

	// FindByUser retrieves a user's assignments joined with their goals, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entity.UserGoal, error)

	// ExistsForGoal reports whether any assignment references the goal.
	ExistsForGoal(ctx context.Context, goalID uuid.UUID) (bool, error)

	// UpdateAccumulated sets the accumulated amount and returns the joined record.
	// reached is true only for the write that took the amount from below the
	// target to at or above it; the row state decides it, so concurrent writers
	// cannot both observe the crossing.
	UpdateAccumulated(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (userGoal *entity.UserGoal, reached bool, err error)

	// Delete removes an assignment.
	Delete(ctx context.Context, id uuid.UUID) error
}
