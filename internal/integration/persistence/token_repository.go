package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goal-tracker/backend/internal/application/adapter"
)

// revokedTokenPrefix is the Redis key prefix for revoked token ids.
const revokedTokenPrefix = "auth:revoked:"

// revokedTokenRepository implements adapter.RevokedTokenRepository on Redis.
// Entries expire together with the token they block.
type revokedTokenRepository struct {
	client *redis.Client
}

// NewRevokedTokenRepository creates a new Redis backed revocation list.
func NewRevokedTokenRepository(client *redis.Client) adapter.RevokedTokenRepository {
	return &revokedTokenRepository{
		client: client,
	}
}

// Revoke marks the token id as revoked for ttl.
func (r *revokedTokenRepository) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedTokenPrefix+tokenID, 1, ttl).Err()
}

// IsRevoked reports whether the token id has been revoked.
func (r *revokedTokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := r.client.Get(ctx, revokedTokenPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
