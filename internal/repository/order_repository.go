package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pillpath-platform/service-analytics/internal/models"
)

// ErrOrderNotFound is returned when no snapshot matches the lookup.
var ErrOrderNotFound = errors.New("pharmacy order not found")

// PharmacyOrderRepository persists synced order snapshots.
type PharmacyOrderRepository struct {
	db *gorm.DB
}

// NewPharmacyOrderRepository creates a new PharmacyOrderRepository.
func NewPharmacyOrderRepository(db *gorm.DB) *PharmacyOrderRepository {
	return &PharmacyOrderRepository{db: db}
}

// Create inserts a new order snapshot.
func (r *PharmacyOrderRepository) Create(ctx context.Context, order *models.PharmacyOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Update saves changes to an existing snapshot.
func (r *PharmacyOrderRepository) Update(ctx context.Context, order *models.PharmacyOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// GetByExternalOrderID looks up a snapshot by its upstream identifier.
func (r *PharmacyOrderRepository) GetByExternalOrderID(ctx context.Context, pharmacyID uuid.UUID, externalOrderID string) (*models.PharmacyOrder, error) {
	var order models.PharmacyOrder
	err := r.db.WithContext(ctx).
		Where("pharmacy_id = ? AND external_order_id = ?", pharmacyID, externalOrderID).
		First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByPharmacyID returns a filtered, paginated order listing plus the
// total row count.
func (r *PharmacyOrderRepository) GetByPharmacyID(ctx context.Context, pharmacyID uuid.UUID, filter *models.PharmacyOrderFilter) ([]models.PharmacyOrder, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.PharmacyOrder{}).
		Where("pharmacy_id = ?", pharmacyID)

	if filter.Status != "" {
		query = query.Where("payment_status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	var orders []models.PharmacyOrder
	err := query.
		Order("ordered_at DESC NULLS LAST").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// GetAllByPharmacyID loads every snapshot for a pharmacy, for aggregation.
// Bounded in practice by a single pharmacy's order history.
func (r *PharmacyOrderRepository) GetAllByPharmacyID(ctx context.Context, pharmacyID uuid.UUID) ([]models.PharmacyOrder, error) {
	var orders []models.PharmacyOrder
	err := r.db.WithContext(ctx).
		Where("pharmacy_id = ?", pharmacyID).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
