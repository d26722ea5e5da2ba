package adapter

// PasswordService hashes and checks account passwords.
type PasswordService interface {
	HashPassword(password string) (string, error)
	// VerifyPassword returns an error when password does not match hashedPassword.
	VerifyPassword(hashedPassword, password string) error
	// ValidatePasswordStrength returns domainerror.ErrWeakPassword for
	// passwords the service refuses to store.
	ValidatePasswordStrength(password string) error
}
