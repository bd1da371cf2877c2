package workflow

// ViewKind enumerates the dashboard sub-views. The active view is an
// explicit variant, never a free-form label, so rendering can switch
// exhaustively with no implicit fallthrough.
type ViewKind int

const (
	ViewList ViewKind = iota
	ViewCreate
	ViewDetail
	ViewHistory
	ViewSupportHistory
)

// View is the dashboard's active sub-view. RefundID is populated only
// for the Detail variant.
type View struct {
	Kind     ViewKind
	RefundID string
}

// ListView shows the support-case list.
func ListView() View { return View{Kind: ViewList} }

// CreateView shows the refund-request form.
func CreateView() View { return View{Kind: ViewCreate} }

// DetailView shows one refund case.
func DetailView(refundID string) View { return View{Kind: ViewDetail, RefundID: refundID} }

// HistoryView shows the refund history table.
func HistoryView() View { return View{Kind: ViewHistory} }

// SupportHistoryView shows the support-case history table.
func SupportHistoryView() View { return View{Kind: ViewSupportHistory} }

// String returns the route label for the view.
func (v View) String() string {
	switch v.Kind {
	case ViewList:
		return "list"
	case ViewCreate:
		return "create"
	case ViewDetail:
		return "detail"
	case ViewHistory:
		return "history"
	case ViewSupportHistory:
		return "support-history"
	}
	return "unknown"
}

// Path returns the dashboard route the view renders at.
func (v View) Path() string {
	switch v.Kind {
	case ViewList:
		return "/support/cases"
	case ViewCreate:
		return "/refunds/new"
	case ViewDetail:
		return "/refunds/" + v.RefundID
	case ViewHistory:
		return "/refunds"
	case ViewSupportHistory:
		return "/support/history"
	}
	return "/"
}
