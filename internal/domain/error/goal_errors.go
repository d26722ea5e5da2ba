package error

import "errors"

// Goal domain errors.
var (
	// ErrGoalNotFound is returned when a goal is not found or not visible to the caller.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrInvalidTargetAmount is returned when the target amount is negative.
	ErrInvalidTargetAmount = errors.New("target amount must not be negative")

	// ErrInvalidTargetDate is returned when the target date cannot be parsed.
	ErrInvalidTargetDate = errors.New("target date must be formatted as YYYY-MM-DD")

	// ErrInvalidGoalName is returned when the goal name is empty.
	ErrInvalidGoalName = errors.New("goal name is required")

	// ErrEmptyGoalUpdate is returned when a goal update carries no fields.
	ErrEmptyGoalUpdate = errors.New("no fields to update")
)

// GoalErrorCode defines error codes for goal errors.
// Format: GOL-XXYYYY where XX is category and YYYY is specific error.
type GoalErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidTargetAmount GoalErrorCode = "GOL-010001"
	ErrCodeInvalidTargetDate   GoalErrorCode = "GOL-010002"
	ErrCodeInvalidGoalName     GoalErrorCode = "GOL-010003"
	ErrCodeEmptyGoalUpdate     GoalErrorCode = "GOL-010004"
	ErrCodeMissingGoalFields   GoalErrorCode = "GOL-010005"
	ErrCodeInvalidGoalID       GoalErrorCode = "GOL-010006"

	// Lookup errors (03XXXX)
	ErrCodeGoalNotFound GoalErrorCode = "GOL-030001"

	// Internal errors
	ErrCodeGoalInternal GoalErrorCode = "GOL-990001"
)

// GoalError represents a goal error with code and message.
type GoalError struct {
	Code    GoalErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *GoalError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *GoalError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code as a plain string.
func (e *GoalError) ErrorCode() string {
	return string(e.Code)
}

// Kind returns the error classification.
func (e *GoalError) Kind() Kind {
	return KindOf(string(e.Code))
}

// NewGoalError creates a new GoalError with the given code and message.
func NewGoalError(code GoalErrorCode, message string, err error) *GoalError {
	return &GoalError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
