package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/goal-tracker/backend/internal/domain/entity"
)

// CreateGoalRequest represents the request body for goal creation.
type CreateGoalRequest struct {
	Name         string           `json:"name"`
	Description  *string          `json:"description"`
	TargetAmount *decimal.Decimal `json:"target_amount"`
	TargetDate   *string          `json:"target_date"`
}

// UpdateGoalRequest represents a partial goal update. A null description or
// target_date clears the stored value.
type UpdateGoalRequest struct {
	Name         *string          `json:"name"`
	Description  Optional[string] `json:"description"`
	TargetAmount *decimal.Decimal `json:"target_amount"`
	TargetDate   Optional[string] `json:"target_date"`
}

// GoalResponse represents a single goal in API responses.
type GoalResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	TargetAmount float64   `json:"target_amount"`
	TargetDate   *string   `json:"target_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToGoalResponse converts a domain Goal entity to a GoalResponse DTO.
func ToGoalResponse(g *entity.Goal) GoalResponse {
	response := GoalResponse{
		ID:           g.ID.String(),
		Name:         g.Name,
		Description:  g.Description,
		TargetAmount: g.TargetAmount.InexactFloat64(),
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}

	if g.TargetDate != nil {
		dateStr := g.TargetDate.Format(entity.DateLayout)
		response.TargetDate = &dateStr
	}

	return response
}

// ToGoalListResponse converts a list of goals to their DTOs.
func ToGoalListResponse(goals []*entity.Goal) []GoalResponse {
	response := make([]GoalResponse, len(goals))
	for i, g := range goals {
		response[i] = ToGoalResponse(g)
	}
	return response
}

// Nullable converts an optional JSON field to its domain form.
func Nullable[T any](o Optional[T]) entity.Nullable[T] {
	return entity.Nullable[T]{Set: o.Set, Value: o.Value}
}
