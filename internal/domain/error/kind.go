// Package error defines domain-specific errors for the Goal Tracker application.
package error

import "strings"

// Kind classifies a domain error independently of the module that raised it.
// The HTTP layer maps kinds to status codes.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindRateLimited  Kind = "rate_limited"
	KindServer       Kind = "server"
)

// Coded is implemented by every domain error carrying a code.
type Coded interface {
	error
	ErrorCode() string
	Kind() Kind
}

// KindOf derives the kind from the category digits of a code
// formatted as PREFIX-XXYYYY.
func KindOf(code string) Kind {
	i := strings.IndexByte(code, '-')
	if i < 0 || len(code) < i+3 {
		return KindServer
	}
	switch code[i+1 : i+3] {
	case "01":
		return KindValidation
	case "02":
		return KindUnauthorized
	case "03":
		return KindNotFound
	case "04":
		return KindConflict
	case "05":
		return KindRateLimited
	default:
		return KindServer
	}
}
