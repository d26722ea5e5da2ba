// Package auth contains authentication-related use cases.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

// RegisterUserInput represents the input for user registration.
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
}

// RegisterUserOutput represents the output of user registration.
type RegisterUserOutput struct {
	Token *adapter.IssuedToken
	User  *entity.User
}

// RegisterUserUseCase handles user registration logic.
type RegisterUserUseCase struct {
	userRepo        adapter.UserRepository
	passwordService adapter.PasswordService
	tokenService    adapter.TokenService
	emailService    adapter.EmailService
}

// NewRegisterUserUseCase creates a new RegisterUserUseCase instance.
// emailService may be nil, in which case no welcome email is queued.
func NewRegisterUserUseCase(
	userRepo adapter.UserRepository,
	passwordService adapter.PasswordService,
	tokenService adapter.TokenService,
	emailService adapter.EmailService,
) *RegisterUserUseCase {
	return &RegisterUserUseCase{
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
		emailService:    emailService,
	}
}

// Execute performs the user registration.
func (uc *RegisterUserUseCase) Execute(ctx context.Context, input RegisterUserInput) (*RegisterUserOutput, error) {
	// Validate name
	if !IsValidName(input.Name) {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidName,
			"name must have at least 2 characters",
			domainerror.ErrInvalidName,
		)
	}

	// Validate email format
	if !IsValidEmail(input.Email) {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeInvalidEmail,
			"invalid email format",
			domainerror.ErrInvalidEmail,
		)
	}

	// Validate password strength
	if err := uc.passwordService.ValidatePasswordStrength(input.Password); err != nil {
		return nil, domainerror.NewAuthError(
			domainerror.ErrCodeWeakPassword,
			"password must have at least 6 characters",
			domainerror.ErrWeakPassword,
		)
	}

	// Check if email already exists
	exists, err := uc.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, emailExistsError()
	}

	// Hash password
	passwordHash, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Save user; the unique index catches a concurrent registration of the same email
	user := entity.NewUser(input.Name, input.Email, passwordHash)
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domainerror.ErrEmailAlreadyExists) {
			return nil, emailExistsError()
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Generate token
	token, err := uc.tokenService.Issue(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	// Queue welcome email
	if uc.emailService != nil {
		err = uc.emailService.QueueWelcomeEmail(ctx, adapter.QueueWelcomeInput{
			UserEmail: user.Email,
			UserName:  user.Name,
		})
		if err != nil {
			slog.Error("Failed to queue welcome email", "error", err, "user_id", user.ID)
		}
	}

	return &RegisterUserOutput{
		Token: token,
		User:  user,
	}, nil
}

func emailExistsError() error {
	return domainerror.NewAuthError(
		domainerror.ErrCodeEmailExists,
		"email already registered",
		domainerror.ErrEmailAlreadyExists,
	)
}
