// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/goal-tracker/backend/internal/application/adapter"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

const (
	minPasswordChars = 6
	// bcrypt ignores input past 72 bytes
	maxPasswordBytes = 72
)

type bcryptPasswordService struct {
	cost int
}

// NewPasswordService hashes with bcrypt at cost. Out of range costs use
// bcrypt.DefaultCost.
func NewPasswordService(cost int) adapter.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &bcryptPasswordService{cost: cost}
}

func (s *bcryptPasswordService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *bcryptPasswordService) VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func (s *bcryptPasswordService) ValidatePasswordStrength(password string) error {
	if utf8.RuneCountInString(password) < minPasswordChars || len(password) > maxPasswordBytes {
		return domainerror.ErrWeakPassword
	}
	return nil
}
