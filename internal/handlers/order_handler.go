package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pillpath-platform/service-analytics/internal/models"
	"github.com/pillpath-platform/service-analytics/internal/services"
)

// OrderHandler handles pharmacy order endpoints.
type OrderHandler struct {
	orderSyncService *services.OrderSyncService
	logger           *zap.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderSyncService *services.OrderSyncService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderSyncService: orderSyncService,
		logger:           logger,
	}
}

// GetOrders returns the synced order snapshots for a pharmacy.
// GET /api/v1/pharmacy-admin/pharmacies/:id/orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	pharmacyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pharmacy ID"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := &models.PharmacyOrderFilter{
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	}

	orders, total, err := h.orderSyncService.GetOrders(c.Request.Context(), pharmacyID, filter)
	if err != nil {
		h.logger.Error("Failed to list orders",
			zap.String("pharmacy_id", pharmacyID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"page":   filter.Page,
	})
}

// SyncOrders pulls the pharmacy's orders from the backend into the local
// snapshot store.
// POST /api/v1/pharmacy-admin/pharmacies/:id/orders/sync
func (h *OrderHandler) SyncOrders(c *gin.Context) {
	pharmacyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pharmacy ID"})
		return
	}

	synced, err := h.orderSyncService.SyncOrders(c.Request.Context(), pharmacyID)
	if err != nil {
		h.logger.Error("Order sync failed",
			zap.String("pharmacy_id", pharmacyID.String()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Order sync failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Order sync completed",
		"orders_synced": synced,
	})
}
