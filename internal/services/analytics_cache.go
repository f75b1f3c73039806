package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pillpath-platform/service-analytics/internal/analytics"
)

// AnalyticsCacheService handles caching for computed sales reports.
type AnalyticsCacheService struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// CachedReport represents the cached report payload.
type CachedReport struct {
	Report   *analytics.Report `json:"report"`
	CachedAt time.Time         `json:"cached_at"`
}

// NewAnalyticsCacheService creates a new analytics cache service.
func NewAnalyticsCacheService(redisClient *redis.Client, ttl time.Duration, logger *zap.Logger) *AnalyticsCacheService {
	if ttl == 0 {
		ttl = 10 * time.Minute // Default TTL
	}
	return &AnalyticsCacheService{
		redis:  redisClient,
		ttl:    ttl,
		logger: logger,
	}
}

// cacheKey generates a cache key for one report evaluation.
func (s *AnalyticsCacheService) cacheKey(pharmacyID string, timeRange analytics.TimeRange, comparison bool) string {
	return fmt.Sprintf("pharmacy:analytics:%s:%s:%t", pharmacyID, timeRange, comparison)
}

// Get retrieves a cached report. Cache errors degrade to a miss.
func (s *AnalyticsCacheService) Get(ctx context.Context, pharmacyID string, timeRange analytics.TimeRange, comparison bool) (*CachedReport, error) {
	if s.redis == nil {
		return nil, nil // No cache available
	}

	key := s.cacheKey(pharmacyID, timeRange, comparison)
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		s.logger.Warn("failed to get report from cache", zap.Error(err), zap.String("key", key))
		return nil, nil
	}

	var cached CachedReport
	if err := json.Unmarshal(data, &cached); err != nil {
		s.logger.Warn("failed to unmarshal cached report", zap.Error(err))
		return nil, nil
	}

	s.logger.Debug("cache hit for sales report", zap.String("pharmacy_id", pharmacyID))
	return &cached, nil
}

// Set stores a report in cache.
func (s *AnalyticsCacheService) Set(ctx context.Context, pharmacyID string, timeRange analytics.TimeRange, comparison bool, report *analytics.Report) error {
	if s.redis == nil {
		return nil // No cache available
	}

	cached := CachedReport{Report: report, CachedAt: time.Now()}
	key := s.cacheKey(pharmacyID, timeRange, comparison)

	data, err := json.Marshal(&cached)
	if err != nil {
		s.logger.Warn("failed to marshal report for cache", zap.Error(err))
		return err
	}

	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("failed to set report in cache", zap.Error(err), zap.String("key", key))
		return err
	}

	s.logger.Debug("cached sales report", zap.String("pharmacy_id", pharmacyID), zap.Duration("ttl", s.ttl))
	return nil
}

// Invalidate removes every cached report for a pharmacy, across all time
// ranges and comparison flags.
func (s *AnalyticsCacheService) Invalidate(ctx context.Context, pharmacyID string) error {
	if s.redis == nil {
		return nil
	}

	pattern := fmt.Sprintf("pharmacy:analytics:%s:*", pharmacyID)
	keys, err := s.redis.Keys(ctx, pattern).Result()
	if err != nil {
		s.logger.Warn("failed to find cache keys to invalidate", zap.Error(err))
		return err
	}

	if len(keys) > 0 {
		if err := s.redis.Del(ctx, keys...).Err(); err != nil {
			s.logger.Warn("failed to invalidate report cache", zap.Error(err))
			return err
		}
		s.logger.Debug("invalidated report cache",
			zap.String("pharmacy_id", pharmacyID), zap.Int("keys_removed", len(keys)))
	}

	return nil
}
