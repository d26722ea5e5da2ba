package error

import "errors"

// Authentication domain errors.
var (
	// ErrEmailAlreadyExists is returned when attempting to register with an existing email.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrInvalidCredentials is returned when login credentials are invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidToken is returned when a token is invalid or malformed.
	ErrInvalidToken = errors.New("invalid token")

	// ErrExpiredToken is returned when a token has expired.
	ErrExpiredToken = errors.New("token has expired")

	// ErrRevokedToken is returned when a token was revoked by logout.
	ErrRevokedToken = errors.New("token has been revoked")

	// ErrWeakPassword is returned when the provided password does not meet requirements.
	ErrWeakPassword = errors.New("password does not meet minimum requirements")

	// ErrInvalidEmail is returned when the provided email format is invalid.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidName is returned when the display name is too short.
	ErrInvalidName = errors.New("name must have at least 2 characters")
)

// AuthErrorCode defines error codes for authentication errors.
// Format: AUTH-XXYYYY where XX is category and YYYY is specific error.
type AuthErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeWeakPassword  AuthErrorCode = "AUTH-010001"
	ErrCodeInvalidEmail  AuthErrorCode = "AUTH-010002"
	ErrCodeInvalidName   AuthErrorCode = "AUTH-010003"
	ErrCodeMissingFields AuthErrorCode = "AUTH-010004"

	// Credential and token errors (02XXXX)
	ErrCodeInvalidCredentials AuthErrorCode = "AUTH-020001"
	ErrCodeInvalidToken       AuthErrorCode = "AUTH-020002"
	ErrCodeExpiredToken       AuthErrorCode = "AUTH-020003"
	ErrCodeMissingToken       AuthErrorCode = "AUTH-020004"
	ErrCodeRevokedToken       AuthErrorCode = "AUTH-020005"

	// Conflict errors (04XXXX)
	ErrCodeEmailExists AuthErrorCode = "AUTH-040001"

	// Throttling errors (05XXXX)
	ErrCodeRateLimited AuthErrorCode = "AUTH-050001"

	// Internal errors
	ErrCodeAuthInternal AuthErrorCode = "AUTH-990001"
)

// AuthError represents an authentication error with code and message.
type AuthError struct {
	Code    AuthErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code as a plain string.
func (e *AuthError) ErrorCode() string {
	return string(e.Code)
}

// Kind returns the error classification.
func (e *AuthError) Kind() Kind {
	return KindOf(string(e.Code))
}

// NewAuthError creates a new AuthError with the given code and message.
func NewAuthError(code AuthErrorCode, message string, err error) *AuthError {
	return &AuthError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
