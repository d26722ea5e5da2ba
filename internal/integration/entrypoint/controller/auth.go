package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goal-tracker/backend/internal/application/usecase/auth"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
	"github.com/goal-tracker/backend/internal/integration/entrypoint/dto"
	"github.com/goal-tracker/backend/internal/integration/entrypoint/middleware"
)

// AuthController handles authentication endpoints.
type AuthController struct {
	registerUseCase *auth.RegisterUserUseCase
	loginUseCase    *auth.LoginUserUseCase
	meUseCase       *auth.GetCurrentUserUseCase
	logoutUseCase   *auth.LogoutUserUseCase
}

// NewAuthController creates a new auth controller instance.
func NewAuthController(
	registerUseCase *auth.RegisterUserUseCase,
	loginUseCase *auth.LoginUserUseCase,
	meUseCase *auth.GetCurrentUserUseCase,
	logoutUseCase *auth.LogoutUserUseCase,
) *AuthController {
	return &AuthController{
		registerUseCase: registerUseCase,
		loginUseCase:    loginUseCase,
		meUseCase:       meUseCase,
		logoutUseCase:   logoutUseCase,
	}
}

// Register handles POST /auth/register requests.
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingFields))
		return
	}

	output, err := c.registerUseCase.Execute(ctx.Request.Context(), auth.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusCreated, dto.ToAuthResponse(output.Token, output.User))
}

// Login handles POST /auth/login requests.
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingFields))
		return
	}

	output, err := c.loginUseCase.Execute(ctx.Request.Context(), auth.LoginUserInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.ToAuthResponse(output.Token, output.User))
}

// Me handles GET /auth/me requests.
func (c *AuthController) Me(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.meUseCase.Execute(ctx.Request.Context(), auth.GetCurrentUserInput{UserID: userID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.ToUserResponse(output.User))
}

// Logout handles POST /auth/logout requests. It always succeeds for an
// authenticated caller.
func (c *AuthController) Logout(ctx *gin.Context) {
	claims, _ := middleware.GetClaimsFromContext(ctx)

	output, err := c.logoutUseCase.Execute(ctx.Request.Context(), auth.LogoutUserInput{Claims: claims})
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.MessageResponse{Message: output.Message})
}
