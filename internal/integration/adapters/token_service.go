package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

// CustomClaims represents the custom claims for JWT tokens.
type CustomClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// TokenConfig holds the signing settings of the token service.
type TokenConfig struct {
	Secret string
	Expiry time.Duration
	Issuer string
}

// tokenService implements the adapter.TokenService interface.
type tokenService struct {
	secret  []byte
	expiry  time.Duration
	issuer  string
	revoked adapter.RevokedTokenRepository
	now     func() time.Time
}

// NewTokenService creates a new token service instance.
// A nil revocation repository disables logout revocation.
func NewTokenService(cfg TokenConfig, revoked adapter.RevokedTokenRepository) adapter.TokenService {
	return &tokenService{
		secret:  []byte(cfg.Secret),
		expiry:  cfg.Expiry,
		issuer:  cfg.Issuer,
		revoked: revoked,
		now:     time.Now,
	}
}

// Issue signs a new access token for the user.
func (s *tokenService) Issue(ctx context.Context, user *entity.User) (*adapter.IssuedToken, error) {
	now := s.now().UTC()
	expiresAt := now.Add(s.expiry)

	claims := CustomClaims{
		UserID: user.ID.String(),
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   user.ID.String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &adapter.IssuedToken{
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

// Verify validates a token and returns its claims.
func (s *tokenService) Verify(ctx context.Context, token string) (*adapter.TokenClaims, error) {
	claims, err := s.parseJWT(token)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", domainerror.ErrInvalidToken)
	}

	if s.revoked != nil && claims.ID != "" {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			slog.Warn("Failed to check token revocation", "error", err)
		} else if revoked {
			return nil, domainerror.ErrRevokedToken
		}
	}

	return &adapter.TokenClaims{
		UserID:    userID,
		Email:     claims.Email,
		Name:      claims.Name,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke blocks the token id for the rest of its lifetime.
func (s *tokenService) Revoke(ctx context.Context, claims *adapter.TokenClaims) error {
	if s.revoked == nil || claims.TokenID == "" {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.TokenID, claims.ExpiresAt.Sub(s.now()))
}

// parseJWT parses and validates a JWT token.
func (s *tokenService) parseJWT(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainerror.ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", domainerror.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, domainerror.ErrInvalidToken
	}

	return claims, nil
}
