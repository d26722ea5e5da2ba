// Package user contains profile management use cases.
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

// GetUserInput represents the input for reading a profile.
type GetUserInput struct {
	UserID uuid.UUID
}

// GetUserOutput represents a profile.
type GetUserOutput struct {
	User *entity.User
}

// GetUserUseCase reads the caller's profile.
type GetUserUseCase struct {
	userRepo adapter.UserRepository
}

// NewGetUserUseCase creates a new GetUserUseCase instance.
func NewGetUserUseCase(userRepo adapter.UserRepository) *GetUserUseCase {
	return &GetUserUseCase{
		userRepo: userRepo,
	}
}

// Execute loads the profile.
func (uc *GetUserUseCase) Execute(ctx context.Context, input GetUserInput) (*GetUserOutput, error) {
	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, userNotFoundError(err)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &GetUserOutput{
		User: user,
	}, nil
}

func userNotFoundError(err error) error {
	return domainerror.NewUserError(
		domainerror.ErrCodeUserNotFound,
		"user not found",
		err,
	)
}
