package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/careline-platform/service-dashboard/internal/clients"
	"github.com/careline-platform/service-dashboard/internal/middleware"
	"github.com/careline-platform/service-dashboard/internal/models"
	"github.com/careline-platform/service-dashboard/internal/services"
	"github.com/careline-platform/service-dashboard/internal/views"
)

// SupportHandler serves the support-case views of the dashboard.
type SupportHandler struct {
	client *clients.SupportClient
	cache  *services.HistoryCacheService
	logger *zap.Logger
}

// NewSupportHandler creates a new SupportHandler.
func NewSupportHandler(client *clients.SupportClient, cache *services.HistoryCacheService, logger *zap.Logger) *SupportHandler {
	return &SupportHandler{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// ListCases lists the caller's support cases with optional status
// filter, substring search, and date ordering applied locally.
// GET /api/v1/support/cases
func (h *SupportHandler) ListCases(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)
	status := models.SupportCaseStatus(c.Query("status"))

	cases, err := h.cache.GetSupportCases(ctx, userID, status)
	if err != nil || cases == nil {
		cases, err = h.client.ListSupportCases(ctx, middleware.Token(c), status)
		if err != nil {
			respondUpstreamError(c, h.logger, err)
			return
		}
		_ = h.cache.SetSupportCases(ctx, userID, status, cases)
	}

	cases = views.FilterSupportByStatus(cases, status)
	cases = views.SearchSupportCases(cases, c.Query("q"))
	cases = views.SortSupportCases(cases)

	c.JSON(http.StatusOK, gin.H{
		"cases": cases,
		"count": len(cases),
	})
}

// GetCase returns one support case.
// GET /api/v1/support/cases/:id
func (h *SupportHandler) GetCase(c *gin.Context) {
	supportCase, err := h.client.GetSupportCase(c.Request.Context(), middleware.Token(c), c.Param("id"))
	if err != nil {
		respondUpstreamError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, supportCase)
}

// ListCaseRefunds returns the refund cases derived from one support case.
// GET /api/v1/support/cases/:id/refunds
func (h *SupportHandler) ListCaseRefunds(c *gin.Context) {
	refunds, err := h.client.ListRefundsForCase(c.Request.Context(), middleware.Token(c), c.Param("id"))
	if err != nil {
		respondUpstreamError(c, h.logger, err)
		return
	}
	refunds = views.SortRefunds(refunds, views.SortByDate)
	c.JSON(http.StatusOK, gin.H{
		"cases": refunds,
		"count": len(refunds),
	})
}
