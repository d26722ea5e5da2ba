package auth

import (
	"context"
	"log/slog"

	"github.com/goal-tracker/backend/internal/application/adapter"
)

// LogoutUserInput represents the input for user logout.
type LogoutUserInput struct {
	Claims *adapter.TokenClaims
}

// LogoutUserOutput represents the output of user logout.
type LogoutUserOutput struct {
	Message string
}

// LogoutUserUseCase handles user logout logic.
type LogoutUserUseCase struct {
	tokenService adapter.TokenService
}

// NewLogoutUserUseCase creates a new LogoutUserUseCase instance.
func NewLogoutUserUseCase(tokenService adapter.TokenService) *LogoutUserUseCase {
	return &LogoutUserUseCase{
		tokenService: tokenService,
	}
}

// Execute revokes the presented token. Logout always succeeds for the caller.
func (uc *LogoutUserUseCase) Execute(ctx context.Context, input LogoutUserInput) (*LogoutUserOutput, error) {
	if input.Claims != nil {
		if err := uc.tokenService.Revoke(ctx, input.Claims); err != nil {
			slog.Warn("Failed to revoke token on logout", "error", err, "user_id", input.Claims.UserID)
		}
	}

	return &LogoutUserOutput{
		Message: "Successfully logged out",
	}, nil
}
