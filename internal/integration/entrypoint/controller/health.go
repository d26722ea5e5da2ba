package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports whether a dependency is reachable.
type HealthChecker func(ctx context.Context) bool

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker    HealthChecker
	redisHealthChecker HealthChecker
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Redis     string `json:"redis"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance. Either
// checker may be nil when the dependency is not configured.
func NewHealthController(dbHealthChecker, redisHealthChecker HealthChecker) *HealthController {
	return &HealthController{
		dbHealthChecker:    dbHealthChecker,
		redisHealthChecker: redisHealthChecker,
	}
}

// Check handles GET /health requests.
// It returns the current health status of the API and its dependencies.
func (h *HealthController) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "ok",
		Database:  checkStatus(ctx, h.dbHealthChecker),
		Redis:     checkStatus(ctx, h.redisHealthChecker),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	respondOK(c, http.StatusOK, response)
}

func checkStatus(ctx context.Context, check HealthChecker) string {
	switch {
	case check == nil:
		return "disabled"
	case check(ctx):
		return "connected"
	default:
		return "disconnected"
	}
}
