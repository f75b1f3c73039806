package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/pillpath-platform/service-analytics/internal/analytics"
)

// PharmacyOrder is the locally synced snapshot of an upstream pharmacy
// order. Analytics aggregates over these snapshots so dashboards keep
// working when the backend is slow or down.
type PharmacyOrder struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PharmacyID      uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_pharmacy_external,priority:1" json:"pharmacy_id"`
	ExternalOrderID string         `gorm:"not null;uniqueIndex:idx_pharmacy_external,priority:2" json:"external_order_id"`
	OrderCode       string         `json:"order_code"`
	CustomerName    string         `json:"customer_name"`
	CustomerEmail   string         `json:"customer_email"`
	Items           datatypes.JSON `json:"items"`
	TotalAmount     float64        `json:"total_amount"`
	PaymentMethod   string         `json:"payment_method"`
	PaymentStatus   string         `gorm:"index" json:"payment_status"`
	OrderedAt       *time.Time     `gorm:"index" json:"ordered_at"`
	SyncedAt        *time.Time     `json:"synced_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// TableName keeps the table name explicit.
func (PharmacyOrder) TableName() string {
	return "pharmacy_orders"
}

// PharmacyOrderFilter narrows and pages order listings.
type PharmacyOrderFilter struct {
	Status   string
	Page     int
	PageSize int
}

// ToAnalyticsOrder converts a snapshot back into the aggregation input
// shape. An order stored without a parseable timestamp keeps an empty
// createdAt and stays outside every window.
func (o *PharmacyOrder) ToAnalyticsOrder() analytics.Order {
	order := analytics.Order{
		ID:            o.ExternalOrderID,
		Code:          o.OrderCode,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Total:         analytics.Amount(o.TotalAmount),
		Payment: analytics.OrderPayment{
			Method: o.PaymentMethod,
			Status: o.PaymentStatus,
		},
	}
	if o.OrderedAt != nil {
		order.CreatedAt = o.OrderedAt.Format(time.RFC3339)
	}
	if len(o.Items) > 0 {
		// Items were stored from the same shape; a decode failure just
		// leaves the line items empty.
		_ = json.Unmarshal(o.Items, &order.Items)
	}
	return order
}
