// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/goal-tracker/backend/internal/domain/entity"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create creates a new user. A duplicate email yields a conflict error.
	Create(ctx context.Context, user *entity.User) error

	// FindByID retrieves a user by their ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail retrieves a user by their normalized email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Update applies the patch and returns the stored user.
	Update(ctx context.Context, id uuid.UUID, patch entity.UserPatch) (*entity.User, error)

	// Delete removes a user together with their assignments and assigned goals.
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByEmail checks if a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
