package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

// GetCurrentUserInput represents the input for resolving the authenticated user.
type GetCurrentUserInput struct {
	UserID uuid.UUID
}

// GetCurrentUserOutput represents the authenticated user.
type GetCurrentUserOutput struct {
	User *entity.User
}

// GetCurrentUserUseCase resolves the identity behind a verified token.
type GetCurrentUserUseCase struct {
	userRepo adapter.UserRepository
}

// NewGetCurrentUserUseCase creates a new GetCurrentUserUseCase instance.
func NewGetCurrentUserUseCase(userRepo adapter.UserRepository) *GetCurrentUserUseCase {
	return &GetCurrentUserUseCase{
		userRepo: userRepo,
	}
}

// Execute loads the user. A token whose user no longer exists is unauthorized.
func (uc *GetCurrentUserUseCase) Execute(ctx context.Context, input GetCurrentUserInput) (*GetCurrentUserOutput, error) {
	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, domainerror.NewAuthError(
				domainerror.ErrCodeInvalidToken,
				"user no longer exists",
				err,
			)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &GetCurrentUserOutput{
		User: user,
	}, nil
}
