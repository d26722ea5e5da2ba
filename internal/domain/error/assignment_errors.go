package error

import "errors"

// Assignment domain errors.
var (
	// ErrAssignmentNotFound is returned when a user-goal assignment does not exist.
	ErrAssignmentNotFound = errors.New("user goal not found")

	// ErrAssignmentExists is returned when the goal is already assigned.
	ErrAssignmentExists = errors.New("goal is already assigned")

	// ErrForeignAssignment is returned when a caller acts on another user's assignments.
	ErrForeignAssignment = errors.New("not allowed to access another user's goals")

	// ErrInvalidAccumulated is returned when the accumulated amount is negative.
	ErrInvalidAccumulated = errors.New("accumulated amount must not be negative")
)

// AssignmentErrorCode defines error codes for assignment errors.
// Format: UGL-XXYYYY where XX is category and YYYY is specific error.
type AssignmentErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidAccumulated      AssignmentErrorCode = "UGL-010001"
	ErrCodeMissingAssignmentFields AssignmentErrorCode = "UGL-010002"
	ErrCodeInvalidAssignmentID     AssignmentErrorCode = "UGL-010003"

	// Authorization errors (02XXXX)
	ErrCodeForeignAssignment AssignmentErrorCode = "UGL-020001"

	// Lookup errors (03XXXX)
	ErrCodeAssignmentNotFound     AssignmentErrorCode = "UGL-030001"
	ErrCodeAssignmentGoalNotFound AssignmentErrorCode = "UGL-030002"
	ErrCodeAssignmentUserNotFound AssignmentErrorCode = "UGL-030003"

	// Conflict errors (04XXXX)
	ErrCodeAssignmentExists AssignmentErrorCode = "UGL-040001"

	// Internal errors
	ErrCodeAssignmentInternal AssignmentErrorCode = "UGL-990001"
)

// AssignmentError represents an assignment error with code and message.
type AssignmentError struct {
	Code    AssignmentErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AssignmentError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AssignmentError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code as a plain string.
func (e *AssignmentError) ErrorCode() string {
	return string(e.Code)
}

// Kind returns the error classification.
func (e *AssignmentError) Kind() Kind {
	return KindOf(string(e.Code))
}

// NewAssignmentError creates a new AssignmentError with the given code and message.
func NewAssignmentError(code AssignmentErrorCode, message string, err error) *AssignmentError {
	return &AssignmentError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
