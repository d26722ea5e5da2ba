package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/goal-tracker/backend/internal/domain/entity"
)

// GoalModel represents the goals table in the database.
type GoalModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name         string          `gorm:"type:varchar(255);not null"`
	Description  *string         `gorm:"type:text"`
	TargetAmount decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TargetDate   *time.Time      `gorm:"type:date"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GoalModel.
func (GoalModel) TableName() string {
	return "goals"
}

// ToEntity converts a GoalModel to a domain Goal entity.
func (m *GoalModel) ToEntity() *entity.Goal {
	var targetDate *time.Time
	if m.TargetDate != nil {
		d := time.Date(m.TargetDate.Year(), m.TargetDate.Month(), m.TargetDate.Day(), 0, 0, 0, 0, time.UTC)
		targetDate = &d
	}

	return &entity.Goal{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		TargetAmount: m.TargetAmount,
		TargetDate:   targetDate,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// GoalFromEntity creates a GoalModel from a domain Goal entity.
func GoalFromEntity(goal *entity.Goal) *GoalModel {
	return &GoalModel{
		ID:           goal.ID,
		Name:         goal.Name,
		Description:  goal.Description,
		TargetAmount: goal.TargetAmount,
		TargetDate:   goal.TargetDate,
		CreatedAt:    goal.CreatedAt,
		UpdatedAt:    goal.UpdatedAt,
	}
}

// GoalPatchColumns maps a patch to column updates. Only fields present in
// the patch produce a column. updated_at is always written.
func GoalPatchColumns(patch entity.GoalPatch, now time.Time) map[string]any {
	columns := map[string]any{"updated_at": now}

	if patch.Name != nil {
		columns["name"] = *patch.Name
	}
	if patch.Description.Set {
		if patch.Description.Value == nil {
			columns["description"] = nil
		} else {
			columns["description"] = *patch.Description.Value
		}
	}
	if patch.TargetAmount != nil {
		columns["target_amount"] = *patch.TargetAmount
	}
	if patch.TargetDate.Set {
		if patch.TargetDate.Value == nil {
			columns["target_date"] = nil
		} else {
			columns["target_date"] = *patch.TargetDate.Value
		}
	}

	return columns
}
