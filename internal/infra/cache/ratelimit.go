package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateLimitPrefix is the Redis key prefix for login attempt counters.
const rateLimitPrefix = "ratelimit:login:"

// fixedWindowScript counts a hit, opens the window on the first one and
// returns the count with the milliseconds left in the window.
var fixedWindowScript = redis.NewScript(`
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
	end
	local ttl = redis.call('PTTL', KEYS[1])
	if ttl < 0 then
		redis.call('PEXPIRE', KEYS[1], ARGV[1])
		ttl = tonumber(ARGV[1])
	end
	return {count, ttl}
`)

// RateLimitStore counts attempts per client in Redis, so the limit holds
// across every API instance.
type RateLimitStore struct {
	client *redis.Client
}

// NewRateLimitStore creates a Redis backed attempt counter.
func NewRateLimitStore(client *redis.Client) *RateLimitStore {
	return &RateLimitStore{client: client}
}

// Hit records an attempt for key in a window of the given length. It returns
// the attempts seen so far in the window and the time until it closes.
func (s *RateLimitStore) Hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error) {
	res, err := fixedWindowScript.Run(ctx, s.client,
		[]string{rateLimitPrefix + hashKey(key)},
		window.Milliseconds(),
	).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("rate limit hit: %w", err)
	}
	if len(res) != 2 {
		return 0, 0, fmt.Errorf("rate limit hit: unexpected reply %v", res)
	}
	return int(res[0]), time.Duration(res[1]) * time.Millisecond, nil
}

// Reset clears all login counters.
func (s *RateLimitStore) Reset(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, rateLimitPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// hashKey avoids storing raw client IPs.
func hashKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:8])
}
