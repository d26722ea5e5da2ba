package client

import (
	"errors"
	"fmt"
	"net/http"

	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

// ErrNotAuthenticated is returned by calls that need a session when none is held.
var ErrNotAuthenticated = errors.New("client: not logged in")

// APIError is an error envelope answered by the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Kind classifies the error from its code, falling back to the status code
// when the API sent none.
func (e *APIError) Kind() domainerror.Kind {
	if e.Code != "" {
		return domainerror.KindOf(e.Code)
	}
	switch e.StatusCode {
	case http.StatusBadRequest:
		return domainerror.KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return domainerror.KindUnauthorized
	case http.StatusNotFound:
		return domainerror.KindNotFound
	case http.StatusConflict:
		return domainerror.KindConflict
	case http.StatusTooManyRequests:
		return domainerror.KindRateLimited
	default:
		return domainerror.KindServer
	}
}

func isKind(err error, kind domainerror.Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind() == kind
}

// IsNotFound reports whether err is an API not-found error.
func IsNotFound(err error) bool { return isKind(err, domainerror.KindNotFound) }

// IsConflict reports whether err is an API conflict error.
func IsConflict(err error) bool { return isKind(err, domainerror.KindConflict) }

// IsUnauthorized reports whether err is an API authentication error.
func IsUnauthorized(err error) bool { return isKind(err, domainerror.KindUnauthorized) }

// IsValidation reports whether err is an API validation error.
func IsValidation(err error) bool { return isKind(err, domainerror.KindValidation) }
