package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Assignment links a user to the goal they are pursuing and carries their progress.
type Assignment struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	GoalID            uuid.UUID
	AccumulatedAmount decimal.Decimal
	AssignedAt        time.Time
	UpdatedAt         time.Time
}

// NewAssignment creates a new Assignment entity.
func NewAssignment(userID, goalID uuid.UUID, accumulated decimal.Decimal) *Assignment {
	now := time.Now().UTC()

	return &Assignment{
		ID:                uuid.New(),
		UserID:            userID,
		GoalID:            goalID,
		AccumulatedAmount: accumulated,
		AssignedAt:        now,
		UpdatedAt:         now,
	}
}

// UserGoal is an assignment joined with the goal it references.
type UserGoal struct {
	Assignment *Assignment
	Goal       *Goal
}
