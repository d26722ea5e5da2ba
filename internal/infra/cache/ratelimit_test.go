package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*RateLimitStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRateLimitStore(client), mr
}

func mustHit(t *testing.T, store *RateLimitStore, key string) (int, time.Duration) {
	t.Helper()
	count, resetIn, err := store.Hit(context.Background(), key, time.Minute)
	if err != nil {
		t.Fatalf("Hit() error = %v", err)
	}
	return count, resetIn
}

func TestRateLimitStore_Hit(t *testing.T) {
	t.Run("counts attempts inside the window", func(t *testing.T) {
		store, _ := newTestStore(t)

		for want := 1; want <= 3; want++ {
			count, resetIn := mustHit(t, store, "10.0.0.1")
			if count != want {
				t.Fatalf("count = %d, want %d", count, want)
			}
			if resetIn <= 0 || resetIn > time.Minute {
				t.Errorf("resetIn = %v, want within the window", resetIn)
			}
		}
	})

	t.Run("counts clients separately", func(t *testing.T) {
		store, _ := newTestStore(t)

		mustHit(t, store, "10.0.0.1")
		if count, _ := mustHit(t, store, "10.0.0.2"); count != 1 {
			t.Errorf("count = %d for a new client, want 1", count)
		}
	})

	t.Run("window expiry resets the counter", func(t *testing.T) {
		store, mr := newTestStore(t)

		mustHit(t, store, "10.0.0.1")
		mustHit(t, store, "10.0.0.1")
		mr.FastForward(61 * time.Second)

		if count, _ := mustHit(t, store, "10.0.0.1"); count != 1 {
			t.Errorf("count = %d after the window, want 1", count)
		}
	})

	t.Run("reports redis errors", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		store := NewRateLimitStore(client)
		_ = client.Close()

		if _, _, err := store.Hit(context.Background(), "10.0.0.1", time.Minute); err == nil {
			t.Error("expected an error from a closed client")
		}
	})

	t.Run("reset clears counters", func(t *testing.T) {
		store, _ := newTestStore(t)

		mustHit(t, store, "10.0.0.1")
		if err := store.Reset(context.Background()); err != nil {
			t.Fatalf("reset failed: %v", err)
		}
		if count, _ := mustHit(t, store, "10.0.0.1"); count != 1 {
			t.Errorf("count = %d after reset, want 1", count)
		}
	})
}
