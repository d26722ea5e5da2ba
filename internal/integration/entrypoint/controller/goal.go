package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goal-tracker/backend/internal/application/usecase/goal"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
	"github.com/goal-tracker/backend/internal/integration/entrypoint/dto"
)

// GoalController handles goal endpoints.
type GoalController struct {
	listUseCase   *goal.ListGoalsUseCase
	createUseCase *goal.CreateGoalUseCase
	getUseCase    *goal.GetGoalUseCase
	updateUseCase *goal.UpdateGoalUseCase
	deleteUseCase *goal.DeleteGoalUseCase
}

// NewGoalController creates a new goal controller instance.
func NewGoalController(
	listUseCase *goal.ListGoalsUseCase,
	createUseCase *goal.CreateGoalUseCase,
	getUseCase *goal.GetGoalUseCase,
	updateUseCase *goal.UpdateGoalUseCase,
	deleteUseCase *goal.DeleteGoalUseCase,
) *GoalController {
	return &GoalController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /goals requests.
func (c *GoalController) List(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), goal.ListGoalsInput{UserID: userID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.ToGoalListResponse(output.Goals))
}

// Create handles POST /goals requests.
func (c *GoalController) Create(ctx *gin.Context) {
	if _, ok := requireUserID(ctx); !ok {
		return
	}

	var req dto.CreateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingGoalFields))
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), goal.CreateGoalInput{
		Name:         req.Name,
		Description:  req.Description,
		TargetAmount: req.TargetAmount,
		TargetDate:   req.TargetDate,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusCreated, dto.ToGoalResponse(output.Goal))
}

// Get handles GET /goals/:id requests.
func (c *GoalController) Get(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	goalID, ok := parseIDParam(ctx, string(domainerror.ErrCodeInvalidGoalID))
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), goal.GetGoalInput{GoalID: goalID, UserID: userID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.ToGoalResponse(output.Goal))
}

// Update handles PUT /goals/:id requests.
func (c *GoalController) Update(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	goalID, ok := parseIDParam(ctx, string(domainerror.ErrCodeInvalidGoalID))
	if !ok {
		return
	}

	var req dto.UpdateGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body", string(domainerror.ErrCodeEmptyGoalUpdate))
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), goal.UpdateGoalInput{
		GoalID:       goalID,
		UserID:       userID,
		Name:         req.Name,
		Description:  dto.Nullable(req.Description),
		TargetAmount: req.TargetAmount,
		TargetDate:   dto.Nullable(req.TargetDate),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.ToGoalResponse(output.Goal))
}

// Delete handles DELETE /goals/:id requests.
func (c *GoalController) Delete(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	goalID, ok := parseIDParam(ctx, string(domainerror.ErrCodeInvalidGoalID))
	if !ok {
		return
	}

	if _, err := c.deleteUseCase.Execute(ctx.Request.Context(), goal.DeleteGoalInput{GoalID: goalID, UserID: userID}); err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.MessageResponse{Message: "Goal deleted"})
}
