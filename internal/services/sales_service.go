package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pillpath-platform/service-analytics/internal/analytics"
	"github.com/pillpath-platform/service-analytics/internal/clients"
	"github.com/pillpath-platform/service-analytics/internal/repository"
)

// SalesService computes sales reports for a pharmacy. Orders come from the
// locally synced snapshot when available, falling back to a live fetch
// from the pharmacy backend.
type SalesService struct {
	orderRepo *repository.PharmacyOrderRepository
	client    *clients.PharmacyClient
	cache     *AnalyticsCacheService
	logger    *zap.Logger
}

// NewSalesService creates a new SalesService. orderRepo and cache may be
// nil; the service degrades to live fetches and uncached computation.
func NewSalesService(
	orderRepo *repository.PharmacyOrderRepository,
	client *clients.PharmacyClient,
	cache *AnalyticsCacheService,
	logger *zap.Logger,
) *SalesService {
	return &SalesService{
		orderRepo: orderRepo,
		client:    client,
		cache:     cache,
		logger:    logger,
	}
}

// ReportResult wraps a computed report with its provenance. FetchError is
// set when the order fetch failed; the report is then computed over an
// empty order set rather than omitted.
type ReportResult struct {
	Report     *analytics.Report
	FromCache  bool
	FetchError string
}

// GetReport evaluates the sales pipeline for one pharmacy. Aggregation is
// a full recomputation over the current order snapshot on every call; only
// the redis cache short-circuits it.
func (s *SalesService) GetReport(ctx context.Context, pharmacyID uuid.UUID, timeRange analytics.TimeRange, comparison, refresh bool) *ReportResult {
	if s.cache != nil && !refresh {
		if cached, _ := s.cache.Get(ctx, pharmacyID.String(), timeRange, comparison); cached != nil && cached.Report != nil {
			return &ReportResult{Report: cached.Report, FromCache: true}
		}
	}

	orders, fetchErr := s.loadOrders(ctx, pharmacyID)
	report := analytics.Aggregate(orders, timeRange, comparison, time.Now())

	result := &ReportResult{Report: report}
	if fetchErr != nil {
		// Degrade to zero aggregates and surface the error; the caller
		// decides whether to retry.
		s.logger.Error("failed to load orders, serving empty report",
			zap.String("pharmacy_id", pharmacyID.String()), zap.Error(fetchErr))
		result.FetchError = fetchErr.Error()
		return result
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, pharmacyID.String(), timeRange, comparison, report); err != nil {
			s.logger.Warn("failed to cache sales report", zap.Error(err))
		}
	}
	return result
}

// loadOrders prefers the synced snapshot and falls back to a one-shot
// live fetch when the snapshot is empty or unavailable.
func (s *SalesService) loadOrders(ctx context.Context, pharmacyID uuid.UUID) ([]analytics.Order, error) {
	if s.orderRepo != nil {
		snapshots, err := s.orderRepo.GetAllByPharmacyID(ctx, pharmacyID)
		if err != nil {
			s.logger.Warn("failed to load order snapshots, falling back to backend",
				zap.String("pharmacy_id", pharmacyID.String()), zap.Error(err))
		} else if len(snapshots) > 0 {
			orders := make([]analytics.Order, len(snapshots))
			for i := range snapshots {
				orders[i] = snapshots[i].ToAnalyticsOrder()
			}
			return orders, nil
		}
	}

	if s.client == nil {
		return nil, nil
	}
	return s.client.ListOrders(ctx, pharmacyID.String(), "")
}
