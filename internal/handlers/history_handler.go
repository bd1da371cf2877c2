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

// HistoryHandler serves the refund history and the merged history views.
type HistoryHandler struct {
	client *clients.SupportClient
	cache  *services.HistoryCacheService
	logger *zap.Logger
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(client *clients.SupportClient, cache *services.HistoryCacheService, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// ListRefunds lists the caller's refund cases with local filter, search,
// and sort (date or amount, both descending and stable).
// GET /api/v1/refunds
func (h *HistoryHandler) ListRefunds(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)
	status := models.RefundCaseStatus(c.Query("status"))

	refunds, err := h.cache.GetRefundCases(ctx, userID, status)
	if err != nil || refunds == nil {
		refunds, err = h.client.ListRefundCases(ctx, middleware.Token(c), status)
		if err != nil {
			respondUpstreamError(c, h.logger, err)
			return
		}
		_ = h.cache.SetRefundCases(ctx, userID, status, refunds)
	}

	refunds = views.FilterRefundsByStatus(refunds, status)
	refunds = views.SearchRefunds(refunds, c.Query("q"))
	refunds = views.SortRefunds(refunds, views.ParseSortKey(c.Query("sort")))

	c.JSON(http.StatusOK, gin.H{
		"cases": refunds,
		"count": len(refunds),
	})
}

// GetRefund returns one refund case with its history entries.
// GET /api/v1/refunds/:id
func (h *HistoryHandler) GetRefund(c *gin.Context) {
	refund, err := h.client.GetRefundCase(c.Request.Context(), middleware.Token(c), c.Param("id"))
	if err != nil {
		respondUpstreamError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, refund)
}

// MergedHistory returns support and refund cases as one tagged-record
// stream ordered by the chosen key.
// GET /api/v1/history
func (h *HistoryHandler) MergedHistory(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)
	token := middleware.Token(c)

	supportCases, err := h.cache.GetSupportCases(ctx, userID, "")
	if err != nil || supportCases == nil {
		supportCases, err = h.client.ListSupportCases(ctx, token, "")
		if err != nil {
			respondUpstreamError(c, h.logger, err)
			return
		}
		_ = h.cache.SetSupportCases(ctx, userID, "", supportCases)
	}

	refunds, err := h.cache.GetRefundCases(ctx, userID, "")
	if err != nil || refunds == nil {
		refunds, err = h.client.ListRefundCases(ctx, token, "")
		if err != nil {
			respondUpstreamError(c, h.logger, err)
			return
		}
		_ = h.cache.SetRefundCases(ctx, userID, "", refunds)
	}

	supportCases = views.SearchSupportCases(supportCases, c.Query("q"))
	refunds = views.SearchRefunds(refunds, c.Query("q"))
	records := views.MergeRecords(supportCases, refunds, views.ParseSortKey(c.Query("sort")))

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"count":   len(records),
	})
}
