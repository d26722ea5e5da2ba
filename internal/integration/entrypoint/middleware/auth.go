// Package middleware holds the gin middleware shared by the API routes.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/goal-tracker/backend/internal/application/adapter"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
	"github.com/goal-tracker/backend/internal/integration/entrypoint/dto"
)

// claimsKey is where Authenticate leaves the verified token claims.
const claimsKey = "token_claims"

const bearerPrefix = "Bearer "

// AuthMiddleware rejects requests without a valid access token.
type AuthMiddleware struct {
	tokenService adapter.TokenService
}

// NewAuthMiddleware creates an AuthMiddleware verifying tokens with tokenService.
func NewAuthMiddleware(tokenService adapter.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenService: tokenService}
}

// Authenticate verifies the bearer token and stores its claims on the context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, msg, code := bearerToken(c.GetHeader("Authorization"))
		if code != "" {
			abortUnauthorized(c, msg, code)
			return
		}

		claims, err := m.tokenService.Verify(c.Request.Context(), token)
		if err != nil {
			msg, code := rejection(err)
			abortUnauthorized(c, msg, code)
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header. A non-empty
// code explains why the header was rejected.
func bearerToken(header string) (string, string, domainerror.AuthErrorCode) {
	if header == "" {
		return "", "Authorization header is required", domainerror.ErrCodeMissingToken
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", "Invalid authorization header format", domainerror.ErrCodeInvalidToken
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	if token == "" {
		return "", "Token is required", domainerror.ErrCodeMissingToken
	}
	return token, "", ""
}

func rejection(err error) (string, domainerror.AuthErrorCode) {
	switch {
	case errors.Is(err, domainerror.ErrExpiredToken):
		return "Token has expired", domainerror.ErrCodeExpiredToken
	case errors.Is(err, domainerror.ErrRevokedToken):
		return "Token has been revoked", domainerror.ErrCodeRevokedToken
	default:
		return "Invalid or expired token", domainerror.ErrCodeInvalidToken
	}
}

func abortUnauthorized(c *gin.Context, message string, code domainerror.AuthErrorCode) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Fail(message, string(code)))
}

// GetClaimsFromContext returns the claims stored by Authenticate.
func GetClaimsFromContext(c *gin.Context) (*adapter.TokenClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*adapter.TokenClaims)
	return claims, ok && claims != nil
}

// GetUserIDFromContext returns the authenticated user's ID.
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	claims, ok := GetClaimsFromContext(c)
	if !ok {
		return uuid.Nil, false
	}
	return claims.UserID, true
}
