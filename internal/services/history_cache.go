package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/careline-platform/service-dashboard/internal/models"
)

// HistoryCacheService caches the upstream's case collections per
// customer so history tables don't refetch on every filter change. A nil
// Redis client degrades to a passthrough: every Get is a miss and every
// Set a no-op.
type HistoryCacheService struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewHistoryCacheService creates a new history cache service.
func NewHistoryCacheService(redisClient *redis.Client, ttl time.Duration, logger *zap.Logger) *HistoryCacheService {
	if ttl == 0 {
		ttl = 5 * time.Minute // Default TTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryCacheService{
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// refundKey generates a cache key for a customer's refund cases.
func (s *HistoryCacheService) refundKey(customerID, status string) string {
	if status == "" {
		status = "all"
	}
	return fmt.Sprintf("dashboard:refunds:%s:%s", customerID, status)
}

// supportKey generates a cache key for a customer's support cases.
func (s *HistoryCacheService) supportKey(customerID, status string) string {
	if status == "" {
		status = "all"
	}
	return fmt.Sprintf("dashboard:support:%s:%s", customerID, status)
}

// GetRefundCases retrieves a customer's cached refund cases. A nil slice
// with nil error is a cache miss.
func (s *HistoryCacheService) GetRefundCases(ctx context.Context, customerID string, status models.RefundCaseStatus) ([]models.RefundCase, error) {
	var out []models.RefundCase
	if !s.get(ctx, s.refundKey(customerID, string(status)), &out) {
		return nil, nil
	}
	return out, nil
}

// SetRefundCases stores a customer's refund cases.
func (s *HistoryCacheService) SetRefundCases(ctx context.Context, customerID string, status models.RefundCaseStatus, cases []models.RefundCase) error {
	return s.set(ctx, s.refundKey(customerID, string(status)), cases)
}

// GetSupportCases retrieves a customer's cached support cases.
func (s *HistoryCacheService) GetSupportCases(ctx context.Context, customerID string, status models.SupportCaseStatus) ([]models.SupportCase, error) {
	var out []models.SupportCase
	if !s.get(ctx, s.supportKey(customerID, string(status)), &out) {
		return nil, nil
	}
	return out, nil
}

// SetSupportCases stores a customer's support cases.
func (s *HistoryCacheService) SetSupportCases(ctx context.Context, customerID string, status models.SupportCaseStatus, cases []models.SupportCase) error {
	return s.set(ctx, s.supportKey(customerID, string(status)), cases)
}

// InvalidateCustomer removes every cached collection for a customer.
// Called when the upstream reports a refund lifecycle change.
func (s *HistoryCacheService) InvalidateCustomer(ctx context.Context, customerID string) error {
	if s.redis == nil {
		return nil
	}

	for _, pattern := range []string{
		fmt.Sprintf("dashboard:refunds:%s:*", customerID),
		fmt.Sprintf("dashboard:support:%s:*", customerID),
	} {
		keys, err := s.redis.Keys(ctx, pattern).Result()
		if err != nil {
			s.logger.Warn("failed to find cache keys to invalidate", zap.Error(err))
			return err
		}
		if len(keys) == 0 {
			continue
		}
		if err := s.redis.Del(ctx, keys...).Err(); err != nil {
			s.logger.Warn("failed to invalidate history cache", zap.Error(err))
			return err
		}
		s.logger.Debug("invalidated history cache",
			zap.String("customer_id", customerID),
			zap.Int("keys_removed", len(keys)))
	}
	return nil
}

// get loads and decodes a cached value, reporting whether it was a hit.
func (s *HistoryCacheService) get(ctx context.Context, key string, out any) bool {
	if s.redis == nil {
		return false // No cache available
	}

	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("failed to get history from cache", zap.Error(err), zap.String("key", key))
		}
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("failed to unmarshal cached history", zap.Error(err))
		return false
	}

	s.logger.Debug("cache hit for history", zap.String("key", key))
	return true
}

// set encodes and stores a value with the configured TTL.
func (s *HistoryCacheService) set(ctx context.Context, key string, value any) error {
	if s.redis == nil {
		return nil // No cache available
	}

	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("failed to marshal history for cache", zap.Error(err))
		return err
	}

	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("failed to set history in cache", zap.Error(err), zap.String("key", key))
		return err
	}

	s.logger.Debug("cached history", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}
