package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goal-tracker/backend/internal/application/adapter"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

// DeleteUserInput represents the input for account deletion.
type DeleteUserInput struct {
	UserID   uuid.UUID
	Password string
	Claims   *adapter.TokenClaims
}

// DeleteUserOutput represents the output of account deletion.
type DeleteUserOutput struct {
	Success bool
}

// DeleteUserUseCase removes an account together with its goals.
type DeleteUserUseCase struct {
	userRepo        adapter.UserRepository
	passwordService adapter.PasswordService
	tokenService    adapter.TokenService
}

// NewDeleteUserUseCase creates a new DeleteUserUseCase instance.
func NewDeleteUserUseCase(
	userRepo adapter.UserRepository,
	passwordService adapter.PasswordService,
	tokenService adapter.TokenService,
) *DeleteUserUseCase {
	return &DeleteUserUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
	}
}

// Execute performs the account deletion after confirming the password.
func (uc *DeleteUserUseCase) Execute(ctx context.Context, input DeleteUserInput) (*DeleteUserOutput, error) {
	// Find user by ID
	user, err := uc.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, userNotFoundError(err)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// Verify password
	if err := uc.passwordService.VerifyPassword(user.PasswordHash, input.Password); err != nil {
		return nil, domainerror.NewUserError(
			domainerror.ErrCodePasswordMismatch,
			"invalid password",
			domainerror.ErrPasswordMismatch,
		)
	}

	// Delete the user, their assignments and assigned goals
	if err := uc.userRepo.Delete(ctx, input.UserID); err != nil {
		if errors.Is(err, domainerror.ErrUserNotFound) {
			return nil, userNotFoundError(err)
		}
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	// Revoke the token used for this request
	if input.Claims != nil {
		_ = uc.tokenService.Revoke(ctx, input.Claims)
	}

	return &DeleteUserOutput{
		Success: true,
	}, nil
}
