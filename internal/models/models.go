// Package models defines the dashboard's read-only projections of the
// support and refund records owned by the upstream support service.
package models

import "time"

// SupportCaseStatus enumerates the lifecycle states of a support case.
type SupportCaseStatus string

const (
	SupportCaseOpen   SupportCaseStatus = "Open"
	SupportCaseClosed SupportCaseStatus = "Closed"
)

// RefundCaseStatus enumerates the lifecycle states of a refund case.
type RefundCaseStatus string

const (
	RefundPending   RefundCaseStatus = "Pending"
	RefundApproved  RefundCaseStatus = "Approved"
	RefundRejected  RefundCaseStatus = "Rejected"
	RefundCompleted RefundCaseStatus = "Completed"
)

// Eligibility status labels as reported by the upstream service.
const (
	EligibilityEligible          = "Eligible"
	EligibilityPartiallyEligible = "Partially Eligible"
	EligibilityIneligible        = "Ineligible"
)

// Product is a line item within a support case or a refund case.
// Price may be absent in badly backfilled orders; UnitPrice treats that
// as zero for display purposes.
type Product struct {
	ProductID    string   `json:"product_id"`
	Name         string   `json:"name,omitempty"`
	Quantity     int      `json:"quantity"`
	Price        *float64 `json:"price,omitempty"`
	RefundAmount *float64 `json:"refund_amount,omitempty"`
	Eligibility  string   `json:"eligibility,omitempty"`
	DeliveryDate string   `json:"delivery_date,omitempty"`
}

// UnitPrice returns the product's unit price, or zero when unknown.
func (p Product) UnitPrice() float64 {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

// SupportCase is a customer-reported issue tied to an order. The
// dashboard never mutates it.
type SupportCase struct {
	ID               string            `json:"id"`
	CustomerID       string            `json:"customer_id"`
	OrderID          string            `json:"order_id"`
	Status           SupportCaseStatus `json:"status"`
	IssueDescription string            `json:"issue_description,omitempty"`
	Products         []Product         `json:"products"`
	CreatedAt        time.Time         `json:"created_at"`
}

// Product returns the line item with the given id, or nil if the case
// does not contain it.
func (c *SupportCase) Product(productID string) *Product {
	for i := range c.Products {
		if c.Products[i].ProductID == productID {
			return &c.Products[i]
		}
	}
	return nil
}

// HistoryEntry is a single audit entry on a refund case.
type HistoryEntry struct {
	Action    string         `json:"action"`
	Timestamp time.Time      `json:"timestamp"`
	UserID    string         `json:"user_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// RefundCase is a request, derived from a support case, to refund some
// subset of its products. Many refund cases may reference one support
// case, one per submission.
type RefundCase struct {
	ID                string           `json:"id"`
	SupportCaseID     string           `json:"support_case_id"`
	CustomerID        string           `json:"customer_id"`
	OrderID           string           `json:"order_id"`
	Status            RefundCaseStatus `json:"status"`
	EligibilityStatus string           `json:"eligibility_status"`
	TotalRefundAmount float64          `json:"total_refund_amount"`
	Products          []Product        `json:"products"`
	RejectionReason   string           `json:"rejection_reason,omitempty"`
	AgentID           string           `json:"agent_id,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	ProcessedAt       *time.Time       `json:"processed_at,omitempty"`
	History           []HistoryEntry   `json:"history,omitempty"`
}

// RefundItem is one entry of a refund-request payload.
type RefundItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// ProductEligibility classifies a single product within an eligibility
// check. DeliveryDate and DaysSinceDelivery are informational and may be
// absent when the upstream has no delivery record for the product.
type ProductEligibility struct {
	ProductID         string  `json:"product_id"`
	Quantity          int     `json:"quantity,omitempty"`
	Price             float64 `json:"price,omitempty"`
	DeliveryDate      string  `json:"delivery_date,omitempty"`
	DaysSinceDelivery int     `json:"days_since_delivery,omitempty"`
	Eligible          bool    `json:"eligible"`
	Reason            string  `json:"reason"`
}

// EligibilityResult is the outcome of one eligibility check. It is
// ephemeral: each check replaces the previous result wholesale, and a
// product id appears in at most one of the two product sets.
type EligibilityResult struct {
	EligibilityStatus     string               `json:"eligibility_status"`
	AllEligible           bool                 `json:"all_eligible"`
	EligibleProducts      []ProductEligibility `json:"eligible_products"`
	IneligibleProducts    []ProductEligibility `json:"ineligible_products"`
	TotalEligibleAmount   float64              `json:"total_eligible_amount"`
	TotalIneligibleAmount float64              `json:"total_ineligible_amount"`
}

// Eligible reports whether the product id is in the eligible set.
func (r *EligibilityResult) IsEligible(productID string) bool {
	for _, p := range r.EligibleProducts {
		if p.ProductID == productID {
			return true
		}
	}
	return false
}

// IsIneligible reports whether the product id is in the ineligible set.
func (r *EligibilityResult) IsIneligible(productID string) bool {
	for _, p := range r.IneligibleProducts {
		if p.ProductID == productID {
			return true
		}
	}
	return false
}

// Covers reports whether the check classified the product id at all.
func (r *EligibilityResult) Covers(productID string) bool {
	return r.IsEligible(productID) || r.IsIneligible(productID)
}
