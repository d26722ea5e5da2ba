package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-tracker/backend/internal/domain/entity"
)

// AssignmentModel represents the user_goals table in the database.
// A (user, goal) pair is unique, and a goal can be assigned only once.
type AssignmentModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_user_goal,priority:1"`
	GoalID            uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_user_goal,priority:2;uniqueIndex:idx_assignment_goal"`
	AccumulatedAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	AssignedAt        time.Time       `gorm:"not null;index"`
	UpdatedAt         time.Time       `gorm:"not null"`

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Goal *GoalModel `gorm:"foreignKey:GoalID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for the AssignmentModel.
func (AssignmentModel) TableName() string {
	return "user_goals"
}

// ToEntity converts an AssignmentModel to a domain Assignment entity.
func (m *AssignmentModel) ToEntity() *entity.Assignment {
	return &entity.Assignment{
		ID:                m.ID,
		UserID:            m.UserID,
		GoalID:            m.GoalID,
		AccumulatedAmount: m.AccumulatedAmount,
		AssignedAt:        m.AssignedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

// ToUserGoal converts a model loaded with its Goal into the joined entity.
func (m *AssignmentModel) ToUserGoal() *entity.UserGoal {
	userGoal := &entity.UserGoal{Assignment: m.ToEntity()}
	if m.Goal != nil {
		userGoal.Goal = m.Goal.ToEntity()
	}
	return userGoal
}

// AssignmentFromEntity creates an AssignmentModel from a domain Assignment entity.
func AssignmentFromEntity(a *entity.Assignment) *AssignmentModel {
	return &AssignmentModel{
		ID:                a.ID,
		UserID:            a.UserID,
		GoalID:            a.GoalID,
		AccumulatedAmount: a.AccumulatedAmount,
		AssignedAt:        a.AssignedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}
