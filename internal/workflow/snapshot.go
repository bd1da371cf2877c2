package workflow

import "github.com/careline-platform/service-dashboard/internal/models"

// CellState is what the eligibility cell of one product row renders.
type CellState string

const (
	CellEligible      CellState = "Eligible"
	CellNotEligible   CellState = "Not Eligible"
	CellChecking      CellState = "Checking…"
	CellSelectToCheck CellState = "Select to check"
)

// cellState evaluates the display precedence for one product: eligible
// beats ineligible beats "result exists but omits the product" beats "no
// result yet". The order matters — it is how the user reads workflow
// progress off the table.
func cellState(eligibility *models.EligibilityResult, productID string) CellState {
	if eligibility == nil {
		return CellSelectToCheck
	}
	if eligibility.IsEligible(productID) {
		return CellEligible
	}
	if eligibility.IsIneligible(productID) {
		return CellNotEligible
	}
	return CellChecking
}

// ProductRow is one row of the refund-request form.
type ProductRow struct {
	Product  models.Product `json:"product"`
	Selected bool           `json:"selected"`
	Cell     CellState      `json:"eligibility_cell"`
}

// Snapshot is a point-in-time rendering of the workflow state, safe to
// serialize while the flow keeps moving.
type Snapshot struct {
	CaseID      string                    `json:"case_id"`
	Case        *models.SupportCase       `json:"case,omitempty"`
	Products    []ProductRow              `json:"products"`
	Selection   []string                  `json:"selection"`
	Eligibility *models.EligibilityResult `json:"eligibility,omitempty"`
	CanSubmit   bool                      `json:"can_submit"`
	Submitting  bool                      `json:"submitting"`
	View        string                    `json:"view"`
	ViewPath    string                    `json:"view_path"`
	Error       string                    `json:"error,omitempty"`
	Notice      string                    `json:"notice,omitempty"`
}

// Snapshot renders the current workflow state.
func (f *RefundFlow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snap := Snapshot{
		CaseID:     f.caseID,
		Case:       f.supportCase,
		Submitting: f.submitting,
		View:       f.view.String(),
		ViewPath:   f.view.Path(),
		Error:      f.errMsg,
		Notice:     f.notice,
	}

	if f.supportCase != nil {
		snap.Selection = f.selectedIDsLocked()
		snap.Products = make([]ProductRow, 0, len(f.supportCase.Products))
		for _, p := range f.supportCase.Products {
			snap.Products = append(snap.Products, ProductRow{
				Product:  p,
				Selected: f.selection[p.ProductID],
				Cell:     cellState(f.eligibility, p.ProductID),
			})
		}
	}
	snap.Eligibility = f.eligibility
	snap.CanSubmit = len(f.selection) > 0 &&
		f.eligibility != nil && f.eligibility.AllEligible &&
		!f.submitting

	return snap
}

// ProductCell returns the eligibility cell for one product of the case.
func (f *RefundFlow) ProductCell(productID string) CellState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cellState(f.eligibility, productID)
}
