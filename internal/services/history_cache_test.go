package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careline-platform/service-dashboard/internal/models"
)

func TestHistoryCacheNilClientIsPassthrough(t *testing.T) {
	cache := NewHistoryCacheService(nil, 0, nil)
	ctx := context.Background()

	refunds, err := cache.GetRefundCases(ctx, "cust-1", models.RefundPending)
	require.NoError(t, err)
	assert.Nil(t, refunds, "nil redis always misses")

	err = cache.SetRefundCases(ctx, "cust-1", models.RefundPending, []models.RefundCase{{ID: "REF-1"}})
	assert.NoError(t, err)

	// The set above was a no-op; the next get still misses.
	refunds, err = cache.GetRefundCases(ctx, "cust-1", models.RefundPending)
	require.NoError(t, err)
	assert.Nil(t, refunds)

	assert.NoError(t, cache.InvalidateCustomer(ctx, "cust-1"))
}

func TestHistoryCacheKeysScopeByCustomerAndStatus(t *testing.T) {
	cache := NewHistoryCacheService(nil, 0, nil)

	assert.Equal(t, "dashboard:refunds:cust-1:Pending", cache.refundKey("cust-1", "Pending"))
	assert.Equal(t, "dashboard:refunds:cust-1:all", cache.refundKey("cust-1", ""))
	assert.Equal(t, "dashboard:support:cust-2:Open", cache.supportKey("cust-2", "Open"))
	assert.Equal(t, "dashboard:support:cust-2:all", cache.supportKey("cust-2", ""))
}
