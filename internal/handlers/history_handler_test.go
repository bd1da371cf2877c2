package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careline-platform/service-dashboard/internal/models"
)

func seedRefunds(h *harness) {
	h.upstream.refundList = []models.RefundCase{
		{ID: "REF-10", SupportCaseID: "CASE-1", OrderID: "ORD-1", Status: models.RefundPending,
			TotalRefundAmount: 40, CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "REF-11", SupportCaseID: "CASE-2", OrderID: "ORD-2", Status: models.RefundCompleted,
			TotalRefundAmount: 90, CreatedAt: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)},
		{ID: "REF-12", SupportCaseID: "CASE-1", OrderID: "ORD-1", Status: models.RefundPending,
			TotalRefundAmount: 25, CreatedAt: time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)},
	}
}

func listedIDs(t *testing.T, body map[string]any) []string {
	t.Helper()
	raw, ok := body["cases"].([]any)
	require.True(t, ok)
	ids := make([]string, len(raw))
	for i, c := range raw {
		ids[i] = c.(map[string]any)["id"].(string)
	}
	return ids
}

func TestListRefundsDefaultsToDateDescending(t *testing.T) {
	h := newHarness(t)
	seedRefunds(h)
	token := signToken(t, "user-1")

	rec := h.request(t, http.MethodGet, "/api/v1/refunds", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"REF-11", "REF-12", "REF-10"}, listedIDs(t, decodeBody(t, rec)))
}

func TestListRefundsSortByAmount(t *testing.T) {
	h := newHarness(t)
	seedRefunds(h)
	token := signToken(t, "user-1")

	rec := h.request(t, http.MethodGet, "/api/v1/refunds?sort=amount", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"REF-11", "REF-10", "REF-12"}, listedIDs(t, decodeBody(t, rec)))
}

func TestListRefundsStatusAndSearch(t *testing.T) {
	h := newHarness(t)
	seedRefunds(h)
	token := signToken(t, "user-1")

	rec := h.request(t, http.MethodGet, "/api/v1/refunds?status=Pending&q=case-1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, []string{"REF-12", "REF-10"}, listedIDs(t, body))
	assert.EqualValues(t, 2, body["count"])
}

func TestGetRefundDetail(t *testing.T) {
	h := newHarness(t)
	seedRefunds(h)
	token := signToken(t, "user-1")

	rec := h.request(t, http.MethodGet, "/api/v1/refunds/REF-11", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "REF-11", decodeBody(t, rec)["id"])

	rec = h.request(t, http.MethodGet, "/api/v1/refunds/REF-99", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMergedHistoryTagsRecords(t *testing.T) {
	h := newHarness(t)
	seedRefunds(h)
	token := signToken(t, "user-1")

	rec := h.request(t, http.MethodGet, "/api/v1/history", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	records, ok := body["records"].([]any)
	require.True(t, ok)
	require.Len(t, records, 4) // 1 support case + 3 refunds

	kinds := map[string]int{}
	for _, r := range records {
		entry := r.(map[string]any)
		kind := entry["kind"].(string)
		kinds[kind]++
		switch kind {
		case "support":
			assert.NotNil(t, entry["support"])
			assert.Nil(t, entry["refund"])
		case "refund":
			assert.NotNil(t, entry["refund"])
			assert.Nil(t, entry["support"])
		default:
			t.Fatalf("unexpected record kind %q", kind)
		}
	}
	assert.Equal(t, map[string]int{"support": 1, "refund": 3}, kinds)
}

func TestListSupportCases(t *testing.T) {
	h := newHarness(t)
	token := signToken(t, "user-1")

	rec := h.request(t, http.MethodGet, "/api/v1/support/cases", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, []string{"CASE-1"}, listedIDs(t, body))
	assert.EqualValues(t, 1, body["count"])
}

func TestListCaseRefunds(t *testing.T) {
	h := newHarness(t)
	seedRefunds(h)
	token := signToken(t, "user-1")

	rec := h.request(t, http.MethodGet, "/api/v1/support/cases/CASE-1/refunds", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}
