package middleware

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	domainerror "github.com/goal-tracker/backend/internal/domain/error"
	"github.com/goal-tracker/backend/internal/integration/entrypoint/dto"
)

// AttemptCounter counts hits per key in fixed windows.
type AttemptCounter interface {
	// Hit records an attempt and returns the attempts in the current window
	// and the time until the window closes.
	Hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error)
	Reset(ctx context.Context) error
}

// RateLimiter rejects clients that exceed limit attempts per window.
type RateLimiter struct {
	counter AttemptCounter
	limit   int
	window  time.Duration
	logger  *slog.Logger
}

// NewRateLimiter limits attempts with the given counter. Counter errors let
// the request through.
func NewRateLimiter(counter AttemptCounter, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		limit:   limit,
		window:  window,
		logger:  slog.Default().With("component", "ratelimit"),
	}
}

// NewInMemoryRateLimiter keeps counters in process memory.
func NewInMemoryRateLimiter(limit int, window time.Duration) *RateLimiter {
	return NewRateLimiter(NewMemoryCounter(), limit, window)
}

// Middleware enforces the limit per client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = c.Request.RemoteAddr
		}

		count, resetIn, err := rl.counter.Hit(c.Request.Context(), clientIP, rl.window)
		if err != nil {
			rl.logger.Error("Rate limit check failed", "error", err)
			c.Next()
			return
		}

		remaining := rl.limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(resetIn).Unix(), 10))

		if count > rl.limit {
			retryAfter := int(math.Ceil(resetIn.Seconds()))
			rl.logger.Warn("Rate limit exceeded",
				"ip", clientIP,
				"endpoint", c.Request.Method+" "+c.FullPath(),
				"retry_after_seconds", retryAfter,
			)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.Fail(
				"Too many requests. Please try again later.",
				string(domainerror.ErrCodeRateLimited),
			))
			return
		}

		c.Next()
	}
}

// Reset clears every counter.
func (rl *RateLimiter) Reset(ctx context.Context) error {
	return rl.counter.Reset(ctx)
}

type window struct {
	count   int
	resetAt time.Time
}

// MemoryCounter is an AttemptCounter for a single API instance.
type MemoryCounter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewMemoryCounter creates an empty MemoryCounter.
func NewMemoryCounter() *MemoryCounter {
	return &MemoryCounter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Hit implements AttemptCounter. Expired windows of other keys are dropped
// on the way.
func (m *MemoryCounter) Hit(_ context.Context, key string, length time.Duration) (int, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, w := range m.windows {
		if !now.Before(w.resetAt) {
			delete(m.windows, k)
		}
	}

	w, ok := m.windows[key]
	if !ok {
		w = &window{resetAt: now.Add(length)}
		m.windows[key] = w
	}
	w.count++
	return w.count, w.resetAt.Sub(now), nil
}

// Reset implements AttemptCounter.
func (m *MemoryCounter) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.windows = make(map[string]*window)
	return nil
}
