package client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-tracker/backend/internal/domain/entity"
)

// Goal is a savings goal as returned by the API.
type Goal struct {
	ID           uuid.UUID
	Name         string
	Description  *string
	TargetAmount decimal.Decimal
	TargetDate   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UnmarshalJSON decodes a goal and parses its calendar date.
func (g *Goal) UnmarshalJSON(data []byte) error {
	var payload struct {
		ID           uuid.UUID       `json:"id"`
		Name         string          `json:"name"`
		Description  *string         `json:"description"`
		TargetAmount decimal.Decimal `json:"target_amount"`
		TargetDate   *string         `json:"target_date"`
		CreatedAt    time.Time       `json:"created_at"`
		UpdatedAt    time.Time       `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return err
	}

	*g = Goal{
		ID:           payload.ID,
		Name:         payload.Name,
		Description:  payload.Description,
		TargetAmount: payload.TargetAmount,
		CreatedAt:    payload.CreatedAt,
		UpdatedAt:    payload.UpdatedAt,
	}
	if payload.TargetDate != nil && *payload.TargetDate != "" {
		date, err := entity.ParseTargetDate(*payload.TargetDate)
		if err != nil {
			return fmt.Errorf("invalid target_date %q: %w", *payload.TargetDate, err)
		}
		g.TargetDate = &date
	}
	return nil
}

// Metrics are the statistics the API derives for a user goal.
type Metrics struct {
	ProgressPercent decimal.Decimal `json:"progress_percent"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	DaysRemaining   *int            `json:"days_remaining"`
	DisplayDays     int             `json:"display_days"`
}

// UserGoal is an assignment joined with its goal.
type UserGoal struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"usuario_id"`
	GoalID      uuid.UUID       `json:"meta_id"`
	Accumulated decimal.Decimal `json:"monto_acumulado"`
	AssignedAt  time.Time       `json:"assigned_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Goal        *Goal           `json:"goal"`
	Metrics     Metrics         `json:"metrics"`
}

// GoalInput holds the fields of a new goal.
type GoalInput struct {
	Name         string
	Description  *string
	TargetAmount decimal.Decimal
	TargetDate   *time.Time
}

func (in GoalInput) body() map[string]any {
	body := map[string]any{
		"name":          in.Name,
		"description":   in.Description,
		"target_amount": in.TargetAmount,
		"target_date":   nil,
	}
	if in.TargetDate != nil {
		body["target_date"] = in.TargetDate.Format(entity.DateLayout)
	}
	return body
}

// patchBody encodes only the supplied fields. A set nullable field without a
// value is sent as null, which clears it.
func patchBody(patch entity.GoalPatch) map[string]any {
	body := make(map[string]any)
	if patch.Name != nil {
		body["name"] = *patch.Name
	}
	if patch.Description.Set {
		body["description"] = patch.Description.Value
	}
	if patch.TargetAmount != nil {
		body["target_amount"] = *patch.TargetAmount
	}
	if patch.TargetDate.Set {
		if patch.TargetDate.Value == nil {
			body["target_date"] = nil
		} else {
			body["target_date"] = patch.TargetDate.Value.Format(entity.DateLayout)
		}
	}
	return body
}

// ListGoals returns the goals reachable through the caller's assignments.
func (c *Client) ListGoals(ctx context.Context) ([]Goal, error) {
	var goals []Goal
	if err := c.do(ctx, http.MethodGet, "/goals", nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// CreateGoal creates a goal without assigning it.
func (c *Client) CreateGoal(ctx context.Context, input GoalInput) (Goal, error) {
	var goal Goal
	err := c.do(ctx, http.MethodPost, "/goals", input.body(), &goal)
	return goal, err
}

// GetGoal fetches a goal by id.
func (c *Client) GetGoal(ctx context.Context, id uuid.UUID) (Goal, error) {
	var goal Goal
	err := c.do(ctx, http.MethodGet, "/goals/"+id.String(), nil, &goal)
	return goal, err
}

// UpdateGoal applies a partial update to a goal.
func (c *Client) UpdateGoal(ctx context.Context, id uuid.UUID, patch entity.GoalPatch) (Goal, error) {
	var goal Goal
	err := c.do(ctx, http.MethodPut, "/goals/"+id.String(), patchBody(patch), &goal)
	return goal, err
}

// DeleteGoal deletes a goal and the assignment referencing it.
func (c *Client) DeleteGoal(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/goals/"+id.String(), nil, nil)
}

// ListUserGoals returns the session user's goals, newest first.
func (c *Client) ListUserGoals(ctx context.Context) ([]UserGoal, error) {
	identity, ok := c.session.Identity()
	if !ok {
		return nil, ErrNotAuthenticated
	}
	var userGoals []UserGoal
	if err := c.do(ctx, http.MethodGet, "/user-goals?user_id="+identity.ID.String(), nil, &userGoals); err != nil {
		return nil, err
	}
	return userGoals, nil
}

// AssignGoal assigns an existing goal to a user.
func (c *Client) AssignGoal(ctx context.Context, userID, goalID uuid.UUID, accumulated decimal.Decimal) (UserGoal, error) {
	body := map[string]any{
		"usuario_id":      userID.String(),
		"meta_id":         goalID.String(),
		"monto_acumulado": accumulated,
	}
	var userGoal UserGoal
	err := c.do(ctx, http.MethodPost, "/user-goals", body, &userGoal)
	return userGoal, err
}

// GetUserGoal fetches one of the caller's user goals.
func (c *Client) GetUserGoal(ctx context.Context, id uuid.UUID) (UserGoal, error) {
	var userGoal UserGoal
	err := c.do(ctx, http.MethodGet, "/user-goals/"+id.String(), nil, &userGoal)
	return userGoal, err
}

// UpdateUserGoal records the accumulated amount of a user goal.
func (c *Client) UpdateUserGoal(ctx context.Context, id uuid.UUID, accumulated decimal.Decimal) (UserGoal, error) {
	body := map[string]any{"monto_acumulado": accumulated}
	var userGoal UserGoal
	err := c.do(ctx, http.MethodPut, "/user-goals/"+id.String(), body, &userGoal)
	return userGoal, err
}

// DeleteAssignment removes a user goal without touching its goal.
func (c *Client) DeleteAssignment(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/user-goals/"+id.String(), nil, nil)
}

// CreateUserGoal creates a goal and assigns it to the session user. When the
// assignment fails the new goal is deleted again.
func (c *Client) CreateUserGoal(ctx context.Context, input GoalInput, accumulated decimal.Decimal) (UserGoal, error) {
	identity, ok := c.session.Identity()
	if !ok {
		return UserGoal{}, ErrNotAuthenticated
	}

	goal, err := c.CreateGoal(ctx, input)
	if err != nil {
		return UserGoal{}, fmt.Errorf("failed to create goal: %w", err)
	}

	userGoal, err := c.AssignGoal(ctx, identity.ID, goal.ID, accumulated)
	if err != nil {
		if delErr := c.DeleteGoal(ctx, goal.ID); delErr != nil && !IsNotFound(delErr) {
			slog.Warn("Failed to remove unassigned goal", "goal_id", goal.ID, "error", delErr)
		}
		return UserGoal{}, fmt.Errorf("failed to assign goal: %w", err)
	}

	if userGoal.Goal == nil {
		userGoal.Goal = &goal
	}
	return userGoal, nil
}

// DeleteUserGoal deletes the assignment and then its goal. Either one being
// gone already is not an error.
func (c *Client) DeleteUserGoal(ctx context.Context, assignmentID, goalID uuid.UUID) error {
	if err := c.DeleteAssignment(ctx, assignmentID); err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if err := c.DeleteGoal(ctx, goalID); err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	return nil
}
