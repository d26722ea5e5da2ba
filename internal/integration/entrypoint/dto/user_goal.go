package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/goal-tracker/backend/internal/application/usecase/assignment"
	"github.com/goal-tracker/backend/internal/domain/valueobject"
)

// CreateUserGoalRequest represents the request body for assigning a goal.
type CreateUserGoalRequest struct {
	UserID      string           `json:"usuario_id"`
	GoalID      string           `json:"meta_id"`
	Accumulated *decimal.Decimal `json:"monto_acumulado"`
}

// UpdateUserGoalRequest represents the request body for recording progress.
type UpdateUserGoalRequest struct {
	Accumulated *decimal.Decimal `json:"monto_acumulado"`
}

// MetricsResponse represents the derived statistics of a user goal.
type MetricsResponse struct {
	ProgressPercent float64 `json:"progress_percent"`
	RemainingAmount float64 `json:"remaining_amount"`
	DaysRemaining   *int    `json:"days_remaining"`
	DisplayDays     int     `json:"display_days"`
}

// UserGoalResponse represents a user goal in API responses.
type UserGoalResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"usuario_id"`
	GoalID      string          `json:"meta_id"`
	Accumulated float64         `json:"monto_acumulado"`
	AssignedAt  time.Time       `json:"assigned_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Goal        *GoalResponse   `json:"goal,omitempty"`
	Metrics     MetricsResponse `json:"metrics"`
}

// ToMetricsResponse converts derived metrics to their DTO.
func ToMetricsResponse(m valueobject.GoalMetrics) MetricsResponse {
	return MetricsResponse{
		ProgressPercent: m.ProgressPercent.InexactFloat64(),
		RemainingAmount: m.RemainingAmount.InexactFloat64(),
		DaysRemaining:   m.DaysRemaining,
		DisplayDays:     valueobject.DisplayDays(m.DaysRemaining),
	}
}

// ToUserGoalResponse converts a user goal view to a UserGoalResponse DTO.
func ToUserGoalResponse(view assignment.UserGoalView) UserGoalResponse {
	a := view.UserGoal.Assignment
	response := UserGoalResponse{
		ID:          a.ID.String(),
		UserID:      a.UserID.String(),
		GoalID:      a.GoalID.String(),
		Accumulated: a.AccumulatedAmount.InexactFloat64(),
		AssignedAt:  a.AssignedAt,
		UpdatedAt:   a.UpdatedAt,
		Metrics:     ToMetricsResponse(view.Metrics),
	}

	if view.UserGoal.Goal != nil {
		goal := ToGoalResponse(view.UserGoal.Goal)
		response.Goal = &goal
	}

	return response
}

// ToUserGoalListResponse converts a list of user goal views to their DTOs.
func ToUserGoalListResponse(views []assignment.UserGoalView) []UserGoalResponse {
	response := make([]UserGoalResponse, len(views))
	for i, view := range views {
		response[i] = ToUserGoalResponse(view)
	}
	return response
}
