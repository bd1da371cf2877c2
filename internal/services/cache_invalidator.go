package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/careline-platform/service-dashboard/internal/events"
)

// CacheInvalidator reacts to upstream lifecycle events by dropping the
// affected customer's cached history. It implements events.EventHandler.
type CacheInvalidator struct {
	cache  *HistoryCacheService
	logger *zap.Logger
}

// NewCacheInvalidator creates a new cache invalidator.
func NewCacheInvalidator(cache *HistoryCacheService, logger *zap.Logger) *CacheInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheInvalidator{cache: cache, logger: logger}
}

// HandleRefundChanged invalidates the customer's cached history after a
// refund status change.
func (i *CacheInvalidator) HandleRefundChanged(event *events.RefundLifecycleEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := i.cache.InvalidateCustomer(ctx, event.CustomerID); err != nil {
		return err
	}
	i.logger.Debug("History cache invalidated after refund change",
		zap.String("customer_id", event.CustomerID),
		zap.String("refund_id", event.RefundID))
	return nil
}

// HandleCaseUpdated invalidates the customer's cached history after a
// support case change.
func (i *CacheInvalidator) HandleCaseUpdated(event *events.CaseUpdatedEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := i.cache.InvalidateCustomer(ctx, event.CustomerID); err != nil {
		return err
	}
	i.logger.Debug("History cache invalidated after case update",
		zap.String("customer_id", event.CustomerID),
		zap.String("case_id", event.CaseID))
	return nil
}
