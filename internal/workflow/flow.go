// Package workflow implements the refund-request workflow: product
// selection over a loaded support case, eligibility classification kept
// in sync with the selection, and submission gating.
package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/careline-platform/service-dashboard/internal/models"
)

// SuccessRedirectDelay is how long the confirmation message stays on
// screen before the dashboard navigates to the created refund's detail
// view.
const SuccessRedirectDelay = 1500 * time.Millisecond

// Workflow precondition failures. These are detected client-side and
// never reach the upstream service.
var (
	ErrCaseNotLoaded  = errors.New("support case is not loaded")
	ErrUnknownProduct = errors.New("product does not belong to the support case")
	ErrEmptySelection = errors.New("no products selected")
	ErrNotAllEligible = errors.New("some selected products are not eligible")
	ErrSubmitInFlight = errors.New("a submission is already in progress")
)

// User-facing messages.
const (
	msgEmptySelection  = "Please select at least one product for refund"
	msgNotAllEligible  = "Some selected products are not eligible for refund"
	msgLoadFailed      = "Support case could not be loaded"
	msgEligibilityFail = "Failed to check refund eligibility, please try again"
	msgSubmitFailed    = "Failed to submit refund request, please try again"
	msgSubmitSuccess   = "Refund request submitted successfully"
)

// API is the slice of the upstream support client the workflow depends on.
type API interface {
	GetSupportCase(ctx context.Context, token, caseID string) (*models.SupportCase, error)
	CheckRefundEligibility(ctx context.Context, token, caseID string, productIDs []string) (*models.EligibilityResult, error)
	CreateRefundRequest(ctx context.Context, token, caseID string, items []models.RefundItem) (*models.RefundCase, error)
}

// RefundFlow drives one in-progress refund request for one support case.
// All state lives behind the flow's mutex; network calls happen outside
// it, and each eligibility response is applied only while its sequence
// number is still the latest, so a slow stale response can never
// overwrite a fresher classification.
type RefundFlow struct {
	api    API
	logger *zap.Logger
	caseID string

	mu          sync.Mutex
	supportCase *models.SupportCase
	selection   map[string]bool
	eligibility *models.EligibilityResult
	eligSeq     uint64
	submitting  bool
	view        View
	errMsg      string
	notice      string
}

// NewRefundFlow creates a workflow for the given support case id.
func NewRefundFlow(caseID string, api API, logger *zap.Logger) *RefundFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefundFlow{
		api:       api,
		logger:    logger,
		caseID:    caseID,
		selection: make(map[string]bool),
		view:      CreateView(),
	}
}

// CaseID returns the support case this flow was created for.
func (f *RefundFlow) CaseID() string {
	return f.caseID
}

// Load fetches the support case. When the case carries products,
// eligibility is pre-warmed for the full product list so the first
// toggle does not need a second round trip; the selection itself stays
// empty. On failure the case remains absent and the error is surfaced
// to the user.
func (f *RefundFlow) Load(ctx context.Context, token string) error {
	sc, err := f.api.GetSupportCase(ctx, token, f.caseID)

	f.mu.Lock()
	if err != nil {
		f.errMsg = msgLoadFailed
		f.mu.Unlock()
		f.logger.Warn("Failed to load support case",
			zap.String("case_id", f.caseID), zap.Error(err))
		return err
	}
	f.supportCase = sc
	f.errMsg = ""

	allIDs := make([]string, 0, len(sc.Products))
	for _, p := range sc.Products {
		allIDs = append(allIDs, p.ProductID)
	}
	f.mu.Unlock()

	if len(allIDs) == 0 {
		return nil
	}
	return f.refreshEligibility(ctx, token, allIDs)
}

// ToggleProduct flips the product's membership in the selection. A
// non-empty result re-checks eligibility for the whole selection, since
// eligibility can depend on product combinations; an empty result clears
// the classification without a network call.
func (f *RefundFlow) ToggleProduct(ctx context.Context, token, productID string) error {
	f.mu.Lock()
	if f.supportCase == nil {
		f.mu.Unlock()
		return ErrCaseNotLoaded
	}
	if f.supportCase.Product(productID) == nil {
		f.mu.Unlock()
		return ErrUnknownProduct
	}

	if f.selection[productID] {
		delete(f.selection, productID)
	} else {
		f.selection[productID] = true
	}

	if len(f.selection) == 0 {
		// Invalidate any in-flight check so a late response cannot
		// resurrect a classification for an empty selection.
		f.eligSeq++
		f.eligibility = nil
		f.mu.Unlock()
		return nil
	}

	ids := f.selectedIDsLocked()
	f.mu.Unlock()

	return f.refreshEligibility(ctx, token, ids)
}

// refreshEligibility issues one eligibility check and applies the
// outcome only if no newer check has been started meanwhile.
func (f *RefundFlow) refreshEligibility(ctx context.Context, token string, productIDs []string) error {
	f.mu.Lock()
	f.eligSeq++
	seq := f.eligSeq
	f.mu.Unlock()

	result, err := f.api.CheckRefundEligibility(ctx, token, f.caseID, productIDs)

	f.mu.Lock()
	defer f.mu.Unlock()

	if seq != f.eligSeq {
		f.logger.Debug("Discarding superseded eligibility response",
			zap.String("case_id", f.caseID),
			zap.Uint64("seq", seq),
			zap.Uint64("latest", f.eligSeq))
		return nil
	}

	if err != nil {
		// Keep the previous classification; the UI shows it alongside
		// the error banner.
		f.errMsg = msgEligibilityFail
		f.logger.Warn("Eligibility check failed",
			zap.String("case_id", f.caseID), zap.Error(err))
		return err
	}

	f.eligibility = result
	f.errMsg = ""
	return nil
}

// Submit validates the submission preconditions and, when they hold,
// creates the refund request upstream. Refusals never issue a network
// call. The submitting flag is true for exactly the duration of the
// upstream call, so the submit control can be disabled against duplicate
// clicks.
func (f *RefundFlow) Submit(ctx context.Context, token string) (*models.RefundCase, error) {
	f.mu.Lock()
	if f.supportCase == nil {
		f.mu.Unlock()
		return nil, ErrCaseNotLoaded
	}
	if f.submitting {
		f.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if len(f.selection) == 0 {
		f.errMsg = msgEmptySelection
		f.mu.Unlock()
		return nil, ErrEmptySelection
	}
	if f.eligibility == nil || !f.eligibility.AllEligible {
		f.errMsg = msgNotAllEligible
		f.mu.Unlock()
		return nil, ErrNotAllEligible
	}

	items := make([]models.RefundItem, 0, len(f.selection))
	for _, p := range f.supportCase.Products {
		if !f.selection[p.ProductID] {
			continue
		}
		quantity := p.Quantity
		if quantity <= 0 {
			// Data-integrity fallback, not expected in well-formed cases.
			quantity = 1
		}
		items = append(items, models.RefundItem{ProductID: p.ProductID, Quantity: quantity})
	}

	f.submitting = true
	f.errMsg = ""
	f.mu.Unlock()

	refund, err := f.api.CreateRefundRequest(ctx, token, f.caseID, items)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false

	if err != nil {
		f.errMsg = msgSubmitFailed
		f.logger.Warn("Refund submission failed",
			zap.String("case_id", f.caseID), zap.Error(err))
		return nil, err
	}

	f.notice = msgSubmitSuccess
	f.view = DetailView(refund.ID)
	f.logger.Info("Refund submitted",
		zap.String("case_id", f.caseID),
		zap.String("refund_id", refund.ID))
	return refund, nil
}

// selectedIDsLocked returns the selection in the case's product order.
// Callers must hold f.mu.
func (f *RefundFlow) selectedIDsLocked() []string {
	ids := make([]string, 0, len(f.selection))
	for _, p := range f.supportCase.Products {
		if f.selection[p.ProductID] {
			ids = append(ids, p.ProductID)
		}
	}
	return ids
}
