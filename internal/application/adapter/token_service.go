package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/goal-tracker/backend/internal/domain/entity"
)

// IssuedToken is a signed access token and its expiry.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TokenClaims represents the claims contained in a JWT token.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	Name      string
	TokenID   string
	ExpiresAt time.Time
}

// TokenService defines the interface for JWT token operations.
type TokenService interface {
	// Issue signs a new access token for the user.
	Issue(ctx context.Context, user *entity.User) (*IssuedToken, error)

	// Verify validates a token signature, expiry and revocation state.
	Verify(ctx context.Context, token string) (*TokenClaims, error)

	// Revoke invalidates the token until it would have expired anyway.
	Revoke(ctx context.Context, claims *TokenClaims) error
}

// RevokedTokenRepository stores ids of tokens invalidated before their expiry.
type RevokedTokenRepository interface {
	// Revoke marks the token id as revoked for ttl.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error

	// IsRevoked reports whether the token id has been revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
