package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careline-platform/service-dashboard/internal/clients"
	"github.com/careline-platform/service-dashboard/internal/middleware"
	"github.com/careline-platform/service-dashboard/internal/services"
	"github.com/careline-platform/service-dashboard/internal/workflow"
)

// RefundFlowHandler serves the refund-request workflow: starting a flow
// for a support case, toggling products, and submitting.
type RefundFlowHandler struct {
	registry *services.FlowRegistry
	client   *clients.SupportClient
	logger   *zap.Logger
}

// NewRefundFlowHandler creates a new RefundFlowHandler.
func NewRefundFlowHandler(registry *services.FlowRegistry, client *clients.SupportClient, logger *zap.Logger) *RefundFlowHandler {
	return &RefundFlowHandler{
		registry: registry,
		client:   client,
		logger:   logger,
	}
}

// CreateFlowRequest starts a refund workflow for a support case.
type CreateFlowRequest struct {
	CaseID string `json:"case_id" binding:"required"`
}

// CreateFlow loads the support case and registers a new workflow for it.
// Eligibility is pre-warmed for the full product list; the selection
// starts empty.
// POST /api/v1/refund-flows
func (h *RefundFlowHandler) CreateFlow(c *gin.Context) {
	var req CreateFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "case_id is required"})
		return
	}

	flow := workflow.NewRefundFlow(req.CaseID, h.client, h.logger)
	err := flow.Load(c.Request.Context(), middleware.Token(c))

	snap := flow.Snapshot()
	if snap.Case == nil {
		// The case never loaded; there is no form to render.
		respondUpstreamError(c, h.logger, err)
		return
	}

	id := h.registry.Put(middleware.UserID(c), flow)
	c.JSON(http.StatusCreated, gin.H{
		"flow_id": id.String(),
		"state":   snap,
	})
}

// GetFlow returns the current workflow state.
// GET /api/v1/refund-flows/:id
func (h *RefundFlowHandler) GetFlow(c *gin.Context) {
	flow, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": flow.Snapshot()})
}

// ToggleRequest flips one product's membership in the selection.
type ToggleRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// ToggleProduct flips the selection and re-checks eligibility for the
// resulting selection. Upstream failures are reported inside the state's
// error banner, with the previous classification retained.
// POST /api/v1/refund-flows/:id/toggle
func (h *RefundFlowHandler) ToggleProduct(c *gin.Context) {
	flow, ok := h.lookup(c)
	if !ok {
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	err := flow.ToggleProduct(c.Request.Context(), middleware.Token(c), req.ProductID)
	switch {
	case errors.Is(err, workflow.ErrUnknownProduct):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product does not belong to this support case"})
		return
	case errors.Is(err, workflow.ErrCaseNotLoaded):
		c.JSON(http.StatusConflict, gin.H{"error": "Support case is not loaded"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": flow.Snapshot()})
}

// Submit validates the preconditions and creates the refund request.
// Refusals answer 400 without touching the upstream. Success carries the
// detail-view redirect and the confirmation delay.
// POST /api/v1/refund-flows/:id/submit
func (h *RefundFlowHandler) Submit(c *gin.Context) {
	flowID, parseErr := uuid.Parse(c.Param("id"))
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid flow ID"})
		return
	}
	flow, found := h.registry.Get(middleware.UserID(c), flowID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Refund flow not found"})
		return
	}

	refund, err := flow.Submit(c.Request.Context(), middleware.Token(c))
	if err != nil {
		snap := flow.Snapshot()
		switch {
		case errors.Is(err, workflow.ErrEmptySelection),
			errors.Is(err, workflow.ErrNotAllEligible),
			errors.Is(err, workflow.ErrCaseNotLoaded):
			c.JSON(http.StatusBadRequest, gin.H{"error": snap.Error, "state": snap})
		case errors.Is(err, workflow.ErrSubmitInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": "Submission already in progress", "state": snap})
		default:
			h.logger.Warn("Refund submission failed upstream", zap.Error(err))
			c.JSON(statusForUpstream(err), gin.H{"error": snap.Error, "state": snap})
		}
		return
	}

	snap := flow.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"refund":            refund,
		"state":             snap,
		"redirect_to":       "/refunds/" + refund.ID,
		"redirect_after_ms": workflow.SuccessRedirectDelay.Milliseconds(),
	})
}

// CancelFlow discards the workflow and sends the user back to the case
// view.
// DELETE /api/v1/refund-flows/:id
func (h *RefundFlowHandler) CancelFlow(c *gin.Context) {
	flowID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid flow ID"})
		return
	}

	userID := middleware.UserID(c)
	flow, found := h.registry.Get(userID, flowID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Refund flow not found"})
		return
	}
	h.registry.Remove(userID, flowID)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Refund request cancelled",
		"redirect_to": "/support/cases/" + flow.CaseID(),
	})
}

// lookup resolves the flow id from the path for the calling user,
// answering the error response itself when the flow is missing.
func (h *RefundFlowHandler) lookup(c *gin.Context) (*workflow.RefundFlow, bool) {
	flowID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid flow ID"})
		return nil, false
	}

	flow, found := h.registry.Get(middleware.UserID(c), flowID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Refund flow not found"})
		return nil, false
	}
	return flow, true
}
