package auth

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// minNameLength is the minimum length of a trimmed display name.
const minNameLength = 2

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail validates the email format.
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// IsValidName reports whether the trimmed name is long enough.
func IsValidName(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= minNameLength
}
