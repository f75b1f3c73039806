package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/pillpath-platform/service-analytics/internal/analytics"
	"github.com/pillpath-platform/service-analytics/internal/clients"
	"github.com/pillpath-platform/service-analytics/internal/events"
	"github.com/pillpath-platform/service-analytics/internal/models"
	"github.com/pillpath-platform/service-analytics/internal/repository"
)

// OrderSyncService pulls order lists from the pharmacy backend into the
// local snapshot store and keeps the analytics cache coherent with order
// events.
type OrderSyncService struct {
	orderRepo *repository.PharmacyOrderRepository
	client    *clients.PharmacyClient
	cache     *AnalyticsCacheService
	publisher *events.Publisher
	logger    *zap.Logger
}

// NewOrderSyncService creates a new OrderSyncService. cache and publisher
// may be nil.
func NewOrderSyncService(
	orderRepo *repository.PharmacyOrderRepository,
	client *clients.PharmacyClient,
	cache *AnalyticsCacheService,
	publisher *events.Publisher,
	logger *zap.Logger,
) *OrderSyncService {
	return &OrderSyncService{
		orderRepo: orderRepo,
		client:    client,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// GetOrders returns the filtered, paginated local order listing.
func (s *OrderSyncService) GetOrders(ctx context.Context, pharmacyID uuid.UUID, filter *models.PharmacyOrderFilter) ([]models.PharmacyOrder, int64, error) {
	return s.orderRepo.GetByPharmacyID(ctx, pharmacyID, filter)
}

// SyncOrders fetches the pharmacy's order list from the backend and
// upserts each order into the snapshot store.
func (s *OrderSyncService) SyncOrders(ctx context.Context, pharmacyID uuid.UUID) (int, error) {
	orders, err := s.client.ListOrders(ctx, pharmacyID.String(), "")
	if err != nil {
		if s.publisher != nil {
			_ = s.publisher.PublishSyncFailed(&events.SyncFailedEvent{
				PharmacyID: pharmacyID,
				Error:      err.Error(),
				Timestamp:  time.Now(),
			})
		}
		return 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	imported := 0
	for i := range orders {
		if err := s.importOrder(ctx, pharmacyID, &orders[i]); err != nil {
			s.logger.Error("Failed to import order",
				zap.String("order_id", orders[i].ID), zap.Error(err))
			continue
		}
		imported++
	}

	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, pharmacyID.String())
	}
	if s.publisher != nil {
		_ = s.publisher.PublishSyncCompleted(&events.SyncCompletedEvent{
			PharmacyID:   pharmacyID,
			OrdersSynced: imported,
			Timestamp:    time.Now(),
		})
	}

	s.logger.Info("Order sync completed",
		zap.String("pharmacy_id", pharmacyID.String()),
		zap.Int("orders_synced", imported),
	)
	return imported, nil
}

func (s *OrderSyncService) importOrder(ctx context.Context, pharmacyID uuid.UUID, order *analytics.Order) error {
	if order.ID == "" {
		return fmt.Errorf("order has no identifier")
	}

	itemsJSON, _ := json.Marshal(order.Items)

	var orderedAt *time.Time
	if t, ok := order.Time(); ok {
		orderedAt = &t
	}
	now := time.Now()

	existing, err := s.orderRepo.GetByExternalOrderID(ctx, pharmacyID, order.ID)
	if err == nil && existing != nil {
		existing.OrderCode = order.Code
		existing.Items = datatypes.JSON(itemsJSON)
		existing.TotalAmount = order.Amount()
		existing.PaymentMethod = order.Payment.Method
		existing.PaymentStatus = order.Payment.Status
		existing.OrderedAt = orderedAt
		existing.SyncedAt = &now
		return s.orderRepo.Update(ctx, existing)
	}

	snapshot := &models.PharmacyOrder{
		PharmacyID:      pharmacyID,
		ExternalOrderID: order.ID,
		OrderCode:       order.Code,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		Items:           datatypes.JSON(itemsJSON),
		TotalAmount:     order.Amount(),
		PaymentMethod:   order.Payment.Method,
		PaymentStatus:   order.Payment.Status,
		OrderedAt:       orderedAt,
		SyncedAt:        &now,
	}
	if err := s.orderRepo.Create(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to create order snapshot: %w", err)
	}
	return nil
}

// HandleOrderCreated imports a newly created order from an event.
func (s *OrderSyncService) HandleOrderCreated(event *events.OrderEvent) error {
	return s.refreshOrder(event)
}

// HandleOrderUpdated re-imports an updated order from an event.
func (s *OrderSyncService) HandleOrderUpdated(event *events.OrderEvent) error {
	return s.refreshOrder(event)
}

// HandleOrderPaid marks the local snapshot paid without a backend round
// trip, then invalidates the pharmacy's cached reports.
func (s *OrderSyncService) HandleOrderPaid(event *events.OrderEvent) error {
	ctx := context.Background()

	existing, err := s.orderRepo.GetByExternalOrderID(ctx, event.PharmacyID, event.OrderID)
	if err != nil {
		// Unknown locally; fall back to a full fetch of the order.
		return s.refreshOrder(event)
	}

	existing.PaymentStatus = "PAID"
	if err := s.orderRepo.Update(ctx, existing); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, event.PharmacyID.String())
	}
	return nil
}

func (s *OrderSyncService) refreshOrder(event *events.OrderEvent) error {
	ctx := context.Background()

	order, err := s.client.GetOrder(ctx, event.PharmacyID.String(), event.OrderID)
	if err != nil {
		return fmt.Errorf("failed to fetch order %s: %w", event.OrderID, err)
	}
	if err := s.importOrder(ctx, event.PharmacyID, order); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, event.PharmacyID.String())
	}
	return nil
}
