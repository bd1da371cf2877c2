package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/careline-platform/service-dashboard/internal/domain/support"
	"github.com/careline-platform/service-dashboard/internal/models"
)

// SupportClient handles communication with the upstream support/refund
// service. The caller's bearer token is passed explicitly on every call;
// the client itself holds no credential state, so there is no ordering
// hazard between "set token" and the call that relies on it.
type SupportClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewSupportClient creates a new SupportClient. A zero timeout falls
// back to 15 seconds; a hung upstream call surfaces as a network error.
func NewSupportClient(baseURL string, timeout time.Duration, logger *zap.Logger) *SupportClient {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupportClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// caseListResponse is the upstream envelope for case collections.
type caseListResponse[T any] struct {
	Cases []T `json:"cases"`
	Count int `json:"count"`
}

// GetSupportCase fetches a support case by ID.
func (c *SupportClient) GetSupportCase(ctx context.Context, token, caseID string) (*models.SupportCase, error) {
	if caseID == "" {
		return nil, fmt.Errorf("case id must not be empty: %w", support.ErrValidation)
	}

	var out models.SupportCase
	path := fmt.Sprintf("/api/v1/support/cases/%s", url.PathEscape(caseID))
	if err := c.get(ctx, token, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListSupportCases fetches the caller's support cases, optionally
// filtered by status on the upstream side.
func (c *SupportClient) ListSupportCases(ctx context.Context, token string, status models.SupportCaseStatus) ([]models.SupportCase, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}

	var out caseListResponse[models.SupportCase]
	if err := c.get(ctx, token, "/api/v1/support/cases", query, &out); err != nil {
		return nil, err
	}
	return out.Cases, nil
}

// CheckRefundEligibility asks the upstream to classify the given
// products of a support case as refund-eligible or not. An empty product
// list is a client-side validation failure; no request is issued.
func (c *SupportClient) CheckRefundEligibility(ctx context.Context, token, caseID string, productIDs []string) (*models.EligibilityResult, error) {
	if len(productIDs) == 0 {
		return nil, fmt.Errorf("product list must not be empty: %w", support.ErrValidation)
	}

	query := url.Values{}
	for _, id := range productIDs {
		query.Add("product_ids", id)
	}

	var out models.EligibilityResult
	path := fmt.Sprintf("/api/v1/refunds/cases/%s/eligibility", url.PathEscape(caseID))
	if err := c.get(ctx, token, path, query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// createRefundRequestBody is the upstream payload for refund creation.
type createRefundRequestBody struct {
	Products []models.RefundItem `json:"products"`
}

// CreateRefundRequest submits a refund request for the given products of
// a support case and returns the created refund case.
func (c *SupportClient) CreateRefundRequest(ctx context.Context, token, caseID string, items []models.RefundItem) (*models.RefundCase, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("refund items must not be empty: %w", support.ErrValidation)
	}

	var out models.RefundCase
	path := fmt.Sprintf("/api/v1/support/cases/%s/refunds", url.PathEscape(caseID))
	if err := c.post(ctx, token, path, &createRefundRequestBody{Products: items}, &out); err != nil {
		return nil, err
	}

	c.logger.Info("Refund request created",
		zap.String("support_case_id", caseID),
		zap.String("refund_id", out.ID))
	return &out, nil
}

// GetRefundCase fetches a refund case by ID.
func (c *SupportClient) GetRefundCase(ctx context.Context, token, refundID string) (*models.RefundCase, error) {
	if refundID == "" {
		return nil, fmt.Errorf("refund id must not be empty: %w", support.ErrValidation)
	}

	var out models.RefundCase
	path := fmt.Sprintf("/api/v1/refunds/cases/%s", url.PathEscape(refundID))
	if err := c.get(ctx, token, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRefundCases fetches the caller's refund cases, optionally filtered
// by status on the upstream side.
func (c *SupportClient) ListRefundCases(ctx context.Context, token string, status models.RefundCaseStatus) ([]models.RefundCase, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", string(status))
	}

	var out caseListResponse[models.RefundCase]
	if err := c.get(ctx, token, "/api/v1/refunds/cases", query, &out); err != nil {
		return nil, err
	}
	return out.Cases, nil
}

// ListRefundsForCase fetches all refund cases derived from one support case.
func (c *SupportClient) ListRefundsForCase(ctx context.Context, token, caseID string) ([]models.RefundCase, error) {
	var out caseListResponse[models.RefundCase]
	path := fmt.Sprintf("/api/v1/support/cases/%s/refunds", url.PathEscape(caseID))
	if err := c.get(ctx, token, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Cases, nil
}

// get performs an authenticated GET and decodes the response into out.
func (c *SupportClient) get(ctx context.Context, token, path string, query url.Values, out any) error {
	return c.do(ctx, token, http.MethodGet, path, query, nil, out)
}

// post performs an authenticated POST with a JSON body.
func (c *SupportClient) post(ctx context.Context, token, path string, body, out any) error {
	return c.do(ctx, token, http.MethodPost, path, nil, body, out)
}

func (c *SupportClient) do(ctx context.Context, token, method, path string, query url.Values, body, out any) error {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorBody covers the error envelopes the upstream is known to emit.
type errorBody struct {
	Code    support.ErrorCode `json:"code"`
	Message string            `json:"message"`
	Detail  string            `json:"detail"`
	Error   string            `json:"error"`
}

// decodeError maps a non-2xx response onto the domain error taxonomy.
func (c *SupportClient) decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil {
		message := body.Message
		if message == "" {
			message = body.Detail
		}
		if message == "" {
			message = body.Error
		}
		if message != "" {
			apiErr := support.NewAPIError(body.Code, message, resp.StatusCode)
			c.logger.Warn("Upstream support API error",
				zap.String("code", body.Code.String()),
				zap.Int("status", resp.StatusCode),
				zap.String("message", message))
			return apiErr
		}
	}

	c.logger.Warn("Upstream support API error with opaque body",
		zap.Int("status", resp.StatusCode))
	return support.FromStatus(resp.StatusCode, http.StatusText(resp.StatusCode))
}
