package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage layout of goal target dates.
const DateLayout = "2006-01-02"

// Goal represents a savings goal definition.
type Goal struct {
	ID           uuid.UUID
	Name         string
	Description  *string
	TargetAmount decimal.Decimal
	TargetDate   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewGoal creates a new Goal entity.
func NewGoal(name string, description *string, targetAmount decimal.Decimal, targetDate *time.Time) *Goal {
	now := time.Now().UTC()

	return &Goal{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Description:  description,
		TargetAmount: targetAmount,
		TargetDate:   targetDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Nullable carries an optional update of a nullable field.
// Set without Value clears the field.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// NullableOf returns a Nullable that sets the field to v.
func NullableOf[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// GoalPatch is a partial update of a Goal.
type GoalPatch struct {
	Name         *string
	Description  Nullable[string]
	TargetAmount *decimal.Decimal
	TargetDate   Nullable[time.Time]
}

// IsEmpty reports whether the patch changes nothing.
func (p GoalPatch) IsEmpty() bool {
	return p.Name == nil && !p.Description.Set && p.TargetAmount == nil && !p.TargetDate.Set
}

// Apply copies the supplied fields onto g.
func (p GoalPatch) Apply(g *Goal) {
	if p.Name != nil {
		g.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description.Set {
		g.Description = p.Description.Value
	}
	if p.TargetAmount != nil {
		g.TargetAmount = *p.TargetAmount
	}
	if p.TargetDate.Set {
		g.TargetDate = p.TargetDate.Value
	}
}

// ParseTargetDate parses a calendar date. Full RFC3339 timestamps are truncated to their date.
func ParseTargetDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if d, err := time.Parse(DateLayout, value); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC), nil
}
