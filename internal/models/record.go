package models

import "time"

// RecordKind discriminates the variants of CaseRecord.
type RecordKind string

const (
	RecordSupport RecordKind = "support"
	RecordRefund  RecordKind = "refund"
)

// CaseRecord is a tagged union of a support case and a refund case, used
// by the merged history view. The Kind discriminant is set at
// construction; consumers must never infer the variant from which
// pointer happens to be non-nil.
type CaseRecord struct {
	Kind    RecordKind   `json:"kind"`
	Support *SupportCase `json:"support,omitempty"`
	Refund  *RefundCase  `json:"refund,omitempty"`
}

// NewSupportRecord wraps a support case as a history record.
func NewSupportRecord(c *SupportCase) CaseRecord {
	return CaseRecord{Kind: RecordSupport, Support: c}
}

// NewRefundRecord wraps a refund case as a history record.
func NewRefundRecord(c *RefundCase) CaseRecord {
	return CaseRecord{Kind: RecordRefund, Refund: c}
}

// ID returns the identifier of the underlying record.
func (r CaseRecord) ID() string {
	switch r.Kind {
	case RecordSupport:
		return r.Support.ID
	case RecordRefund:
		return r.Refund.ID
	}
	return ""
}

// OrderID returns the order the underlying record belongs to.
func (r CaseRecord) OrderID() string {
	switch r.Kind {
	case RecordSupport:
		return r.Support.OrderID
	case RecordRefund:
		return r.Refund.OrderID
	}
	return ""
}

// Status returns the underlying record's status label.
func (r CaseRecord) Status() string {
	switch r.Kind {
	case RecordSupport:
		return string(r.Support.Status)
	case RecordRefund:
		return string(r.Refund.Status)
	}
	return ""
}

// CreatedAt returns the creation timestamp of the underlying record.
func (r CaseRecord) CreatedAt() time.Time {
	switch r.Kind {
	case RecordSupport:
		return r.Support.CreatedAt
	case RecordRefund:
		return r.Refund.CreatedAt
	}
	return time.Time{}
}

// Amount returns the monetary value associated with the record. Support
// cases carry no refund amount and report zero.
func (r CaseRecord) Amount() float64 {
	if r.Kind == RecordRefund {
		return r.Refund.TotalRefundAmount
	}
	return 0
}
