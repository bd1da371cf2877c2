// Package views provides the pure list transformations behind the
// history tables: status filtering, substring search, and stable
// sorting. Every function returns a fresh slice and leaves its input
// untouched, so filter and search compose in either order.
package views

import (
	"sort"
	"strings"

	"github.com/careline-platform/service-dashboard/internal/models"
)

// SortKey selects the ordering of a history table.
type SortKey string

const (
	SortByDate   SortKey = "date"
	SortByAmount SortKey = "amount"
)

// ParseSortKey maps a query parameter onto a SortKey, defaulting to date.
func ParseSortKey(raw string) SortKey {
	if SortKey(raw) == SortByAmount {
		return SortByAmount
	}
	return SortByDate
}

// FilterRefundsByStatus keeps refund cases with the given status. An
// empty status keeps everything.
func FilterRefundsByStatus(cases []models.RefundCase, status models.RefundCaseStatus) []models.RefundCase {
	if status == "" {
		return append([]models.RefundCase(nil), cases...)
	}
	out := make([]models.RefundCase, 0, len(cases))
	for _, c := range cases {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

// SearchRefunds keeps refund cases whose id, order id, or owning support
// case id contains the query, case-insensitively. An empty query keeps
// everything.
func SearchRefunds(cases []models.RefundCase, query string) []models.RefundCase {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]models.RefundCase(nil), cases...)
	}
	out := make([]models.RefundCase, 0, len(cases))
	for _, c := range cases {
		if containsFold(query, c.ID, c.OrderID, c.SupportCaseID) {
			out = append(out, c)
		}
	}
	return out
}

// SortRefunds orders refund cases by the key, descending. The sort is
// stable: cases with equal keys keep their original relative order.
func SortRefunds(cases []models.RefundCase, key SortKey) []models.RefundCase {
	out := append([]models.RefundCase(nil), cases...)
	switch key {
	case SortByAmount:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].TotalRefundAmount > out[j].TotalRefundAmount
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

// FilterSupportByStatus keeps support cases with the given status. An
// empty status keeps everything.
func FilterSupportByStatus(cases []models.SupportCase, status models.SupportCaseStatus) []models.SupportCase {
	if status == "" {
		return append([]models.SupportCase(nil), cases...)
	}
	out := make([]models.SupportCase, 0, len(cases))
	for _, c := range cases {
		if c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

// SearchSupportCases keeps support cases whose id, order id, or issue
// description contains the query, case-insensitively.
func SearchSupportCases(cases []models.SupportCase, query string) []models.SupportCase {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]models.SupportCase(nil), cases...)
	}
	out := make([]models.SupportCase, 0, len(cases))
	for _, c := range cases {
		if containsFold(query, c.ID, c.OrderID, c.IssueDescription) {
			out = append(out, c)
		}
	}
	return out
}

// SortSupportCases orders support cases by creation time, descending,
// stably. Support cases carry no amount, so SortByAmount falls back to
// date as well.
func SortSupportCases(cases []models.SupportCase) []models.SupportCase {
	out := append([]models.SupportCase(nil), cases...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// MergeRecords builds the combined support+refund history as tagged
// records, ordered by the chosen key descending.
func MergeRecords(supportCases []models.SupportCase, refunds []models.RefundCase, key SortKey) []models.CaseRecord {
	out := make([]models.CaseRecord, 0, len(supportCases)+len(refunds))
	for i := range supportCases {
		out = append(out, models.NewSupportRecord(&supportCases[i]))
	}
	for i := range refunds {
		out = append(out, models.NewRefundRecord(&refunds[i]))
	}
	switch key {
	case SortByAmount:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Amount() > out[j].Amount()
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt().After(out[j].CreatedAt())
		})
	}
	return out
}

// containsFold reports whether any of the fields contains the already
// lower-cased query.
func containsFold(query string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}
