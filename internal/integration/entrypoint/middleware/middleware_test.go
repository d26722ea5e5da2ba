package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/goal-tracker/backend/internal/application/adapter"
	"github.com/goal-tracker/backend/internal/domain/entity"
	domainerror "github.com/goal-tracker/backend/internal/domain/error"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %q", rec.Body.String())
	}
	return body
}

type stubTokenService struct {
	claims *adapter.TokenClaims
	err    error
}

func (s *stubTokenService) Issue(ctx context.Context, user *entity.User) (*adapter.IssuedToken, error) {
	return nil, nil
}

func (s *stubTokenService) Verify(ctx context.Context, token string) (*adapter.TokenClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func (s *stubTokenService) Revoke(ctx context.Context, claims *adapter.TokenClaims) error {
	return nil
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS("https://app.example.com"))
	engine.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	t.Run("preflight answers 200 without reaching handlers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/ping", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if rec.Body.Len() != 0 {
			t.Errorf("preflight body = %q, want empty", rec.Body.String())
		}
		if got := rec.Header().Get("Access-Control-Allow-Methods"); got != "GET,OPTIONS,PATCH,DELETE,POST,PUT" {
			t.Errorf("Allow-Methods = %q", got)
		}
	})

	t.Run("regular responses carry the headers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		h := rec.Header()
		if h.Get("Access-Control-Allow-Origin") != "https://app.example.com" {
			t.Errorf("Allow-Origin = %q", h.Get("Access-Control-Allow-Origin"))
		}
		if h.Get("Access-Control-Allow-Credentials") != "true" {
			t.Errorf("Allow-Credentials = %q", h.Get("Access-Control-Allow-Credentials"))
		}
		if h.Get("Access-Control-Allow-Headers") == "" {
			t.Error("Allow-Headers missing")
		}
	})
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()
	valid := &adapter.TokenClaims{
		UserID:    userID,
		Email:     "ana@example.com",
		TokenID:   "jti-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	tests := []struct {
		name       string
		header     string
		service    *stubTokenService
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", &stubTokenService{claims: valid}, http.StatusUnauthorized, string(domainerror.ErrCodeMissingToken)},
		{"wrong scheme", "Basic abc", &stubTokenService{claims: valid}, http.StatusUnauthorized, string(domainerror.ErrCodeInvalidToken)},
		{"empty bearer", "Bearer  ", &stubTokenService{claims: valid}, http.StatusUnauthorized, string(domainerror.ErrCodeMissingToken)},
		{"expired", "Bearer t", &stubTokenService{err: domainerror.ErrExpiredToken}, http.StatusUnauthorized, string(domainerror.ErrCodeExpiredToken)},
		{"revoked", "Bearer t", &stubTokenService{err: domainerror.ErrRevokedToken}, http.StatusUnauthorized, string(domainerror.ErrCodeRevokedToken)},
		{"invalid", "Bearer t", &stubTokenService{err: domainerror.ErrInvalidToken}, http.StatusUnauthorized, string(domainerror.ErrCodeInvalidToken)},
		{"valid", "Bearer t", &stubTokenService{claims: valid}, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/me", NewAuthMiddleware(tt.service).Authenticate(), func(c *gin.Context) {
				id, ok := GetUserIDFromContext(c)
				if !ok || id != userID {
					t.Errorf("user id = %v (ok=%v), want %v", id, ok, userID)
				}
				claims, ok := GetClaimsFromContext(c)
				if !ok || claims.TokenID != "jti-1" {
					t.Errorf("claims = %+v (ok=%v)", claims, ok)
				}
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantCode == "" {
				return
			}
			body := decode(t, rec)
			if body.Success {
				t.Error("success = true on rejected request")
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
		})
	}
}

type failingCounter struct{}

func (failingCounter) Hit(context.Context, string, time.Duration) (int, time.Duration, error) {
	return 0, 0, errors.New("redis down")
}

func (failingCounter) Reset(context.Context) error { return nil }

func TestRateLimiter(t *testing.T) {
	login := func(rl *RateLimiter) *gin.Engine {
		engine := gin.New()
		engine.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
		return engine
	}
	post := func(engine *gin.Engine) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		engine.ServeHTTP(rec, req)
		return rec
	}

	t.Run("in memory window", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		counter := NewMemoryCounter()
		counter.now = func() time.Time { return now }
		engine := login(NewRateLimiter(counter, 2, time.Minute))

		for i := 0; i < 2; i++ {
			rec := post(engine)
			if rec.Code != http.StatusOK {
				t.Fatalf("attempt %d status = %d, want 200", i+1, rec.Code)
			}
			if got, want := rec.Header().Get("X-RateLimit-Remaining"), strconv.Itoa(1-i); got != want {
				t.Errorf("attempt %d remaining = %q, want %q", i+1, got, want)
			}
		}

		now = now.Add(15 * time.Second)
		rec := post(engine)
		if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("third attempt status = %d, want 429", rec.Code)
		}
		if body := decode(t, rec); body.Code != string(domainerror.ErrCodeRateLimited) {
			t.Errorf("code = %q", body.Code)
		}
		if got := rec.Header().Get("Retry-After"); got != "45" {
			t.Errorf("Retry-After = %q, want 45", got)
		}

		now = now.Add(time.Minute)
		if rec := post(engine); rec.Code != http.StatusOK {
			t.Errorf("status after window = %d, want 200", rec.Code)
		}
	})

	t.Run("expired windows are dropped", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		counter := NewMemoryCounter()
		counter.now = func() time.Time { return now }

		_, _, _ = counter.Hit(context.Background(), "a", time.Minute)
		now = now.Add(2 * time.Minute)
		_, _, _ = counter.Hit(context.Background(), "b", time.Minute)

		if len(counter.windows) != 1 {
			t.Errorf("windows = %d, want 1", len(counter.windows))
		}
	})

	t.Run("reset clears counters", func(t *testing.T) {
		rl := NewInMemoryRateLimiter(1, time.Minute)
		engine := login(rl)

		post(engine)
		if rec := post(engine); rec.Code != http.StatusTooManyRequests {
			t.Fatalf("second status = %d, want 429", rec.Code)
		}
		if err := rl.Reset(context.Background()); err != nil {
			t.Fatalf("Reset() error = %v", err)
		}
		if rec := post(engine); rec.Code != http.StatusOK {
			t.Errorf("status after reset = %d", rec.Code)
		}
	})

	t.Run("counter errors fail open", func(t *testing.T) {
		engine := login(NewRateLimiter(failingCounter{}, 1, time.Minute))
		for i := 0; i < 3; i++ {
			if rec := post(engine); rec.Code != http.StatusOK {
				t.Fatalf("attempt %d status = %d", i+1, rec.Code)
			}
		}
	})
}
