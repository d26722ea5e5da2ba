package error

import "errors"

// User domain errors.
var (
	// ErrUserNotFound is returned when a user is not found in the system.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmptyUserUpdate is returned when a profile update carries no fields.
	ErrEmptyUserUpdate = errors.New("no fields to update")

	// ErrPasswordMismatch is returned when the confirmation password is wrong.
	ErrPasswordMismatch = errors.New("password confirmation does not match")
)

// UserErrorCode defines error codes for user errors.
// Format: USR-XXYYYY where XX is category and YYYY is specific error.
type UserErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeEmptyUserUpdate   UserErrorCode = "USR-010001"
	ErrCodeInvalidUserFields UserErrorCode = "USR-010002"

	// Authorization errors (02XXXX)
	ErrCodePasswordMismatch UserErrorCode = "USR-020001"

	// Lookup errors (03XXXX)
	ErrCodeUserNotFound UserErrorCode = "USR-030001"

	// Conflict errors (04XXXX)
	ErrCodeUserEmailTaken UserErrorCode = "USR-040001"

	// Internal errors
	ErrCodeUserInternal UserErrorCode = "USR-990001"
)

// UserError represents a user error with code and message.
type UserError struct {
	Code    UserErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *UserError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *UserError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code as a plain string.
func (e *UserError) ErrorCode() string {
	return string(e.Code)
}

// Kind returns the error classification.
func (e *UserError) Kind() Kind {
	return KindOf(string(e.Code))
}

// NewUserError creates a new UserError with the given code and message.
func NewUserError(code UserErrorCode, message string, err error) *UserError {
	return &UserError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
