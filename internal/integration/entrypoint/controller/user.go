package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goal-tracker/backend/internal/application/usecase/user"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
	"github.com/goal-tracker/backend/internal/integration/entrypoint/dto"
	"github.com/goal-tracker/backend/internal/integration/entrypoint/middleware"
)

// UserController handles profile endpoints.
type UserController struct {
	getUseCase    *user.GetUserUseCase
	updateUseCase *user.UpdateUserUseCase
	deleteUseCase *user.DeleteUserUseCase
}

// NewUserController creates a new user controller instance.
func NewUserController(
	getUseCase *user.GetUserUseCase,
	updateUseCase *user.UpdateUserUseCase,
	deleteUseCase *user.DeleteUserUseCase,
) *UserController {
	return &UserController{
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// Get handles GET /users/me requests.
func (c *UserController) Get(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), user.GetUserInput{UserID: userID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.ToUserResponse(output.User))
}

// Update handles PUT /users/me requests.
func (c *UserController) Update(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body", string(domainerror.ErrCodeInvalidUserFields))
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), user.UpdateUserInput{
		UserID:   userID,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.ToUserResponse(output.User))
}

// Delete handles DELETE /users/me requests.
func (c *UserController) Delete(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.DeleteUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body", string(domainerror.ErrCodeInvalidUserFields))
		return
	}

	claims, _ := middleware.GetClaimsFromContext(ctx)
	if _, err := c.deleteUseCase.Execute(ctx.Request.Context(), user.DeleteUserInput{
		UserID:   userID,
		Password: req.Password,
		Claims:   claims,
	}); err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.MessageResponse{Message: "Account deleted"})
}
