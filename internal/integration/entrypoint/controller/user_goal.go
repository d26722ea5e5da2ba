package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/goal-tracker/backend/internal/application/usecase/assignment"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
	"github.com/goal-tracker/backend/internal/integration/entrypoint/dto"
)

// UserGoalController handles the endpoints linking users to goals.
type UserGoalController struct {
	listUseCase   *assignment.ListAssignmentsUseCase
	createUseCase *assignment.CreateAssignmentUseCase
	getUseCase    *assignment.GetAssignmentUseCase
	updateUseCase *assignment.UpdateAssignmentUseCase
	deleteUseCase *assignment.DeleteAssignmentUseCase
}

// NewUserGoalController creates a new user goal controller instance.
func NewUserGoalController(
	listUseCase *assignment.ListAssignmentsUseCase,
	createUseCase *assignment.CreateAssignmentUseCase,
	getUseCase *assignment.GetAssignmentUseCase,
	updateUseCase *assignment.UpdateAssignmentUseCase,
	deleteUseCase *assignment.DeleteAssignmentUseCase,
) *UserGoalController {
	return &UserGoalController{
		listUseCase:   listUseCase,
		createUseCase: createUseCase,
		getUseCase:    getUseCase,
		updateUseCase: updateUseCase,
		deleteUseCase: deleteUseCase,
	}
}

// List handles GET /user-goals requests. The optional user_id query
// parameter must name the caller.
func (c *UserGoalController) List(ctx *gin.Context) {
	callerID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	input := assignment.ListAssignmentsInput{CallerID: callerID}
	if raw := ctx.Query("user_id"); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			respondBadRequest(ctx, "Invalid user ID format", string(domainerror.ErrCodeInvalidAssignmentID))
			return
		}
		input.UserID = &userID
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.ToUserGoalListResponse(output.UserGoals))
}

// Create handles POST /user-goals requests.
func (c *UserGoalController) Create(ctx *gin.Context) {
	callerID, ok := requireUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateUserGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingAssignmentFields))
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondBadRequest(ctx, "Invalid user ID", string(domainerror.ErrCodeInvalidAssignmentID))
		return
	}
	goalID, err := uuid.Parse(req.GoalID)
	if err != nil {
		respondBadRequest(ctx, "Invalid goal ID", string(domainerror.ErrCodeInvalidAssignmentID))
		return
	}

	output, err := c.createUseCase.Execute(ctx.Request.Context(), assignment.CreateAssignmentInput{
		CallerID:    callerID,
		UserID:      userID,
		GoalID:      goalID,
		Accumulated: req.Accumulated,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusCreated, dto.ToUserGoalResponse(output.UserGoal))
}

// Get handles GET /user-goals/:id requests.
func (c *UserGoalController) Get(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, string(domainerror.ErrCodeInvalidAssignmentID))
	if !ok {
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), assignment.GetAssignmentInput{ID: id, UserID: userID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.ToUserGoalResponse(output.UserGoal))
}

// Update handles PUT /user-goals/:id requests.
func (c *UserGoalController) Update(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, string(domainerror.ErrCodeInvalidAssignmentID))
	if !ok {
		return
	}

	var req dto.UpdateUserGoalRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBadRequest(ctx, "Invalid request body", string(domainerror.ErrCodeMissingAssignmentFields))
		return
	}

	output, err := c.updateUseCase.Execute(ctx.Request.Context(), assignment.UpdateAssignmentInput{
		ID:          id,
		UserID:      userID,
		Accumulated: req.Accumulated,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.ToUserGoalResponse(output.UserGoal))
}

// Delete handles DELETE /user-goals/:id requests.
func (c *UserGoalController) Delete(ctx *gin.Context) {
	userID, ok := requireUserID(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, string(domainerror.ErrCodeInvalidAssignmentID))
	if !ok {
		return
	}

	if _, err := c.deleteUseCase.Execute(ctx.Request.Context(), assignment.DeleteAssignmentInput{ID: id, UserID: userID}); err != nil {
		respondError(ctx, err)
		return
	}

	respondOK(ctx, http.StatusOK, dto.MessageResponse{Message: "User goal deleted"})
}
