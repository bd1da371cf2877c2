package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/careline-platform/service-dashboard/internal/domain/support"
)

// statusForUpstream maps a domain error onto the HTTP status the
// dashboard responds with.
func statusForUpstream(err error) int {
	switch {
	case errors.Is(err, support.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, support.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, support.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, support.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, support.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusBadGateway
	}
}

// respondUpstreamError logs the real failure and answers with the
// generic retryable message; the dashboard does not differentiate
// upstream failure modes to the end user.
func respondUpstreamError(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("Upstream request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err))
	c.JSON(statusForUpstream(err), gin.H{"error": "Request failed, please try again"})
}
