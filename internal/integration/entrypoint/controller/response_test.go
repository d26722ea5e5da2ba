package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	domainerror "github.com/goal-tracker/backend/internal/domain/error"
	"github.com/goal-tracker/backend/internal/integration/entrypoint/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusForKind(t *testing.T) {
	tests := []struct {
		kind domainerror.Kind
		want int
	}{
		{domainerror.KindValidation, http.StatusBadRequest},
		{domainerror.KindConflict, http.StatusBadRequest},
		{domainerror.KindUnauthorized, http.StatusUnauthorized},
		{domainerror.KindNotFound, http.StatusNotFound},
		{domainerror.KindRateLimited, http.StatusTooManyRequests},
		{domainerror.KindServer, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := StatusForKind(tt.kind); got != tt.want {
				t.Errorf("StatusForKind(%s) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "validation",
			err:         domainerror.NewGoalError(domainerror.ErrCodeInvalidTargetAmount, "target amount must be greater than zero", nil),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "GOL-010001",
			wantMessage: "target amount must be greater than zero",
		},
		{
			name:        "wrapped not found",
			err:         fmt.Errorf("loading: %w", domainerror.NewGoalError(domainerror.ErrCodeGoalNotFound, "goal not found", nil)),
			wantStatus:  http.StatusNotFound,
			wantCode:    "GOL-030001",
			wantMessage: "goal not found",
		},
		{
			name:        "conflict answers 400",
			err:         domainerror.NewAssignmentError(domainerror.ErrCodeAssignmentExists, "goal already has a user assigned", nil),
			wantStatus:  http.StatusBadRequest,
			wantCode:    "UGL-040001",
			wantMessage: "goal already has a user assigned",
		},
		{
			name:        "internal hides details",
			err:         domainerror.NewGoalError(domainerror.ErrCodeGoalInternal, "failed to save goal", errors.New("pq: connection refused")),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    "GOL-990001",
			wantMessage: "An internal error occurred",
		},
		{
			name:        "uncoded",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "An internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(rec)
			ctx.Request = httptest.NewRequest(http.MethodGet, "/api/goals", nil)

			respondError(ctx, tt.err)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body dto.Response
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Success {
				t.Error("success = true")
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Code, tt.wantCode)
			}
			if body.Error != tt.wantMessage {
				t.Errorf("error = %q, want %q", body.Error, tt.wantMessage)
			}
		})
	}
}

func TestParseIDParam(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)
	ctx.Request = httptest.NewRequest(http.MethodGet, "/api/goals/abc", nil)
	ctx.Params = gin.Params{{Key: "id", Value: "abc"}}

	if _, ok := parseIDParam(ctx, string(domainerror.ErrCodeInvalidGoalID)); ok {
		t.Fatal("parseIDParam accepted a malformed id")
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
