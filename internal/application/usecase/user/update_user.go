package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/application/usecase/auth"
	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

// UpdateUserInput represents a partial profile update. Nil fields are left untouched.
type UpdateUserInput struct {
	UserID   uuid.UUID
	Name     *string
	Email    *string
	Password *string
}

// UpdateUserOutput represents the updated profile.
type UpdateUserOutput struct {
	User *entity.User
}

// UpdateUserUseCase changes the caller's profile.
type UpdateUserUseCase struct {
	userRepo        adapter.UserRepository
	passwordService adapter.PasswordService
}

// NewUpdateUserUseCase creates a new UpdateUserUseCase instance.
func NewUpdateUserUseCase(userRepo adapter.UserRepository, passwordService adapter.PasswordService) *UpdateUserUseCase {
	return &UpdateUserUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
	}
}

// Execute validates each supplied field and applies the update.
func (uc *UpdateUserUseCase) Execute(ctx context.Context, input UpdateUserInput) (*UpdateUserOutput, error) {
	var patch entity.UserPatch

	if input.Name != nil {
		if !auth.IsValidName(*input.Name) {
			return nil, invalidFieldError("name must have at least 2 characters", domainerror.ErrInvalidName)
		}
		name := strings.TrimSpace(*input.Name)
		patch.Name = &name
	}

	if input.Email != nil {
		if !auth.IsValidEmail(*input.Email) {
			return nil, invalidFieldError("invalid email format", domainerror.ErrInvalidEmail)
		}
		email := entity.NormalizeEmail(*input.Email)
		patch.Email = &email
	}

	if input.Password != nil {
		if err := uc.passwordService.ValidatePasswordStrength(*input.Password); err != nil {
			return nil, invalidFieldError("password must have at least 6 characters", domainerror.ErrWeakPassword)
		}
		hash, err := uc.passwordService.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		patch.PasswordHash = &hash
	}

	if patch.IsEmpty() {
		return nil, domainerror.NewUserError(
			domainerror.ErrCodeEmptyUserUpdate,
			"no fields to update",
			domainerror.ErrEmptyUserUpdate,
		)
	}

	user, err := uc.userRepo.Update(ctx, input.UserID, patch)
	if err != nil {
		switch {
		case errors.Is(err, domainerror.ErrUserNotFound):
			return nil, userNotFoundError(err)
		case errors.Is(err, domainerror.ErrEmailAlreadyExists):
			return nil, domainerror.NewUserError(
				domainerror.ErrCodeUserEmailTaken,
				"email already registered",
				err,
			)
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return &UpdateUserOutput{
		User: user,
	}, nil
}

func invalidFieldError(message string, err error) error {
	return domainerror.NewUserError(domainerror.ErrCodeInvalidUserFields, message, err)
}
