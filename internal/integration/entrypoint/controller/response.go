// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainerror "github.com/goal-tracker/backend/internal/domain/error"
	"github.com/goal-tracker/backend/internal/integration/entrypoint/dto"
	"github.com/goal-tracker/backend/internal/integration/entrypoint/middleware"
)

// respondOK writes data in a successful envelope.
func respondOK(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, dto.OK(data))
}

// respondError maps a domain error to its status code. Errors without a code
// are logged and answered with a generic message.
func respondError(ctx *gin.Context, err error) {
	var coded domainerror.Coded
	if errors.As(err, &coded) {
		status := StatusForKind(coded.Kind())
		if status == http.StatusInternalServerError {
			slog.Error("Request failed", "error", err, "path", ctx.FullPath(), "code", coded.ErrorCode())
			ctx.JSON(status, dto.Fail("An internal error occurred", coded.ErrorCode()))
			return
		}
		ctx.JSON(status, dto.Fail(coded.Error(), coded.ErrorCode()))
		return
	}

	slog.Error("Request failed", "error", err, "path", ctx.FullPath(), "method", ctx.Request.Method)
	ctx.JSON(http.StatusInternalServerError, dto.Fail("An internal error occurred", ""))
}

// respondBadRequest answers a body or parameter that could not be decoded.
func respondBadRequest(ctx *gin.Context, message, code string) {
	ctx.JSON(http.StatusBadRequest, dto.Fail(message, code))
}

// StatusForKind maps an error kind to its HTTP status. Conflicts answer 400.
func StatusForKind(kind domainerror.Kind) int {
	switch kind {
	case domainerror.KindValidation, domainerror.KindConflict:
		return http.StatusBadRequest
	case domainerror.KindUnauthorized:
		return http.StatusUnauthorized
	case domainerror.KindNotFound:
		return http.StatusNotFound
	case domainerror.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// requireUserID reads the authenticated user or answers 401.
func requireUserID(ctx *gin.Context) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.Fail("User not authenticated", string(domainerror.ErrCodeMissingToken)))
		return uuid.Nil, false
	}
	return userID, true
}

// parseIDParam parses the :id path parameter or answers 400 with code.
func parseIDParam(ctx *gin.Context, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		respondBadRequest(ctx, "Invalid ID format", code)
		return uuid.Nil, false
	}
	return id, true
}
