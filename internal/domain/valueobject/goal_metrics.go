// Package valueobject contains domain value objects for the Goal Tracker system.
package valueobject

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// GoalMetrics holds the statistics derived from a goal and its accumulated amount.
// It is computed on demand and never persisted.
type GoalMetrics struct {
	ProgressPercent decimal.Decimal
	RemainingAmount decimal.Decimal
	// DaysRemaining is nil when the goal has no target date. Overdue goals are negative.
	DaysRemaining *int
}

// ComputeGoalMetrics derives all metrics for the given amounts and target date.
func ComputeGoalMetrics(accumulated, target decimal.Decimal, targetDate *time.Time, now time.Time) GoalMetrics {
	return GoalMetrics{
		ProgressPercent: ProgressPercent(accumulated, target),
		RemainingAmount: RemainingAmount(accumulated, target),
		DaysRemaining:   DaysRemaining(targetDate, now),
	}
}

// ProgressPercent returns accumulated/target as a percentage in [0, 100].
// A target below 1 is treated as 1.
func ProgressPercent(accumulated, target decimal.Decimal) decimal.Decimal {
	if accumulated.IsNegative() {
		return decimal.Zero
	}
	if target.LessThan(one) {
		target = one
	}
	percent := accumulated.Div(target).Mul(hundred)
	if percent.GreaterThan(hundred) {
		return hundred
	}
	return percent
}

// RemainingAmount returns how much is still missing to reach the target. Never negative.
func RemainingAmount(accumulated, target decimal.Decimal) decimal.Decimal {
	remaining := target.Sub(accumulated)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// DaysRemaining returns the signed number of started days until targetDate.
// Partial days round up.
func DaysRemaining(targetDate *time.Time, now time.Time) *int {
	if targetDate == nil {
		return nil
	}
	days := int(math.Ceil(targetDate.Sub(now).Hours() / 24))
	return &days
}

// DisplayDays is the value shown to users: missing and overdue dates show as 0.
func DisplayDays(days *int) int {
	if days == nil || *days < 0 {
		return 0
	}
	return *days
}

// IsComplete reports whether the progress reached 100%.
func (m GoalMetrics) IsComplete() bool {
	return m.ProgressPercent.Equal(hundred)
}
