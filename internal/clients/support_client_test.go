package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careline-platform/service-dashboard/internal/domain/support"
	"github.com/careline-platform/service-dashboard/internal/models"
)

func TestGetSupportCaseSendsBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(models.SupportCase{ID: "CASE-1", Status: models.SupportCaseOpen})
	}))
	defer server.Close()

	client := NewSupportClient(server.URL, 5*time.Second, nil)
	sc, err := client.GetSupportCase(context.Background(), "my-token", "CASE-1")

	require.NoError(t, err)
	assert.Equal(t, "CASE-1", sc.ID)
	assert.Equal(t, "Bearer my-token", gotAuth)
	assert.Equal(t, "/api/v1/support/cases/CASE-1", gotPath)
}

func TestGetSupportCaseEmptyIDFailsWithoutRequest(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := NewSupportClient(server.URL, 0, nil)
	_, err := client.GetSupportCase(context.Background(), "tok", "")

	assert.ErrorIs(t, err, support.ErrValidation)
	assert.Equal(t, 0, requests)
}

func TestCheckRefundEligibilityQueryShape(t *testing.T) {
	var gotQuery []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()["product_ids"]
		json.NewEncoder(w).Encode(models.EligibilityResult{
			EligibilityStatus: models.EligibilityEligible,
			AllEligible:       true,
			EligibleProducts: []models.ProductEligibility{
				{ProductID: "P1", Eligible: true, Reason: "Within 14-day refund window"},
				{ProductID: "P2", Eligible: true, Reason: "Within 14-day refund window"},
			},
			TotalEligibleAmount: 180,
		})
	}))
	defer server.Close()

	client := NewSupportClient(server.URL, 0, nil)
	res, err := client.CheckRefundEligibility(context.Background(), "tok", "CASE-1", []string{"P1", "P2"})

	require.NoError(t, err)
	assert.Equal(t, []string{"P1", "P2"}, gotQuery)
	assert.True(t, res.AllEligible)
	assert.True(t, res.Covers("P1"))
	assert.Equal(t, float64(180), res.TotalEligibleAmount)
}

func TestCheckRefundEligibilityEmptyListFailsWithoutRequest(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	client := NewSupportClient(server.URL, 0, nil)
	_, err := client.CheckRefundEligibility(context.Background(), "tok", "CASE-1", nil)

	assert.ErrorIs(t, err, support.ErrValidation)
	assert.Equal(t, 0, requests)
}

func TestCreateRefundRequestBodyAndResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/support/cases/CASE-1/refunds", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body struct {
			Products []models.RefundItem `json:"products"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []models.RefundItem{{ProductID: "P1", Quantity: 2}}, body.Products)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(models.RefundCase{
			ID:            "REF-1",
			SupportCaseID: "CASE-1",
			Status:        models.RefundPending,
		})
	}))
	defer server.Close()

	client := NewSupportClient(server.URL, 0, nil)
	refund, err := client.CreateRefundRequest(context.Background(), "tok", "CASE-1",
		[]models.RefundItem{{ProductID: "P1", Quantity: 2}})

	require.NoError(t, err)
	assert.Equal(t, "REF-1", refund.ID)
	assert.Equal(t, models.RefundPending, refund.Status)
}

func TestListSupportCasesStatusFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Open", r.URL.Query().Get("status"))
		json.NewEncoder(w).Encode(map[string]any{
			"cases": []models.SupportCase{{ID: "CASE-1"}, {ID: "CASE-2"}},
			"count": 2,
		})
	}))
	defer server.Close()

	client := NewSupportClient(server.URL, 0, nil)
	cases, err := client.ListSupportCases(context.Background(), "tok", models.SupportCaseOpen)

	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "CASE-1", cases[0].ID)
}

func TestErrorEnvelopeMapsToDomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"not found code", http.StatusNotFound, `{"code":"not_found","message":"case not found"}`, support.ErrNotFound},
		{"unauthorized status", http.StatusUnauthorized, `{"detail":"token expired"}`, support.ErrUnauthorized},
		{"conflict code", http.StatusConflict, `{"code":"refund_conflict","message":"refund already pending"}`, support.ErrConflict},
		{"validation via 422", http.StatusUnprocessableEntity, `{"detail":"product not in case"}`, support.ErrValidation},
		{"server error", http.StatusBadGateway, `{"error":"upstream exploded"}`, support.ErrUnavailable},
		{"opaque body", http.StatusServiceUnavailable, `<html>nope</html>`, support.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewSupportClient(server.URL, 0, nil)
			_, err := client.GetRefundCase(context.Background(), "tok", "REF-1")

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestErrorMessagePrefersMessageOverDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"primary","detail":"secondary"}`))
	}))
	defer server.Close()

	client := NewSupportClient(server.URL, 0, nil)
	_, err := client.GetRefundCase(context.Background(), "tok", "REF-1")

	var apiErr *support.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "primary", apiErr.Message)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestListRefundsForCase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/support/cases/CASE-1/refunds", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"cases": []models.RefundCase{{ID: "REF-1", SupportCaseID: "CASE-1"}},
			"count": 1,
		})
	}))
	defer server.Close()

	client := NewSupportClient(server.URL, 0, nil)
	refunds, err := client.ListRefundsForCase(context.Background(), "tok", "CASE-1")

	require.NoError(t, err)
	require.Len(t, refunds, 1)
	assert.Equal(t, "REF-1", refunds[0].ID)
}
