package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/goal-tracker/backend/internal/domain/entity"
)

// GoalRepository defines the interface for goal persistence operations.
type GoalRepository interface {
	// Create stores a new goal.
	Create(ctx context.Context, goal *entity.Goal) error

	// FindByID retrieves a goal by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Goal, error)

	// FindByOwner retrieves the goals assigned to a user, newest assignment first.
	FindByOwner(ctx context.Context, userID uuid.UUID) ([]*entity.Goal, error)

	// OwnerOf returns the user the goal is assigned to, or nil when it is unassigned.
	OwnerOf(ctx context.Context, goalID uuid.UUID) (*uuid.UUID, error)

	// Update applies the patch through a fixed column mapping and returns the stored goal.
	Update(ctx context.Context, id uuid.UUID, patch entity.GoalPatch) (*entity.Goal, error)

	// Delete removes the goal and any assignment referencing it.
	Delete(ctx context.Context, id uuid.UUID) error
}
