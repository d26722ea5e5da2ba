package error

import "errors"

// Email domain errors.
var (
	// ErrEmailQueueFailed is returned when an email fails to be queued.
	ErrEmailQueueFailed = errors.New("failed to queue email")

	// ErrInvalidTemplate is returned when a job names a template that does not exist.
	ErrInvalidTemplate = errors.New("invalid email template")
)

// EmailErrorCode defines error codes for email errors.
// Format: EMAIL-XXYYYY where XX is category and YYYY is specific error.
type EmailErrorCode string

const (
	// Template errors (01XXXX)
	ErrCodeInvalidTemplate EmailErrorCode = "EMAIL-010001"

	// Delivery errors (9XXXXX)
	ErrCodeEmailQueueFailed      EmailErrorCode = "EMAIL-900001"
	ErrCodePermanentEmailFailure EmailErrorCode = "EMAIL-910002"
	ErrCodeTemporaryEmailFailure EmailErrorCode = "EMAIL-910003"
	ErrCodeTemplateRenderFailed  EmailErrorCode = "EMAIL-920001"
)

// EmailError represents an email error with code and message.
type EmailError struct {
	Code    EmailErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *EmailError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *EmailError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code as a plain string.
func (e *EmailError) ErrorCode() string {
	return string(e.Code)
}

// Kind returns the error classification.
func (e *EmailError) Kind() Kind {
	return KindOf(string(e.Code))
}

// NewEmailError creates a new EmailError with the given code and message.
func NewEmailError(code EmailErrorCode, message string, err error) *EmailError {
	return &EmailError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
