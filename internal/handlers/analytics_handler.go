package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pillpath-platform/service-analytics/internal/analytics"
	"github.com/pillpath-platform/service-analytics/internal/services"
)

// AnalyticsHandler handles pharmacy sales analytics endpoints.
type AnalyticsHandler struct {
	salesService *services.SalesService
	logger       *zap.Logger
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(salesService *services.SalesService, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		salesService: salesService,
		logger:       logger,
	}
}

// reportQuery parses the shared query parameters of the analytics
// endpoints.
func reportQuery(c *gin.Context) (uuid.UUID, analytics.TimeRange, bool, bool, bool) {
	pharmacyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pharmacy ID"})
		return uuid.Nil, "", false, false, false
	}

	timeRange, err := analytics.ParseTimeRange(c.DefaultQuery("time_range", "month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time_range, use week|month|year"})
		return uuid.Nil, "", false, false, false
	}

	comparison := c.Query("comparison") == "true"
	refresh := c.Query("refresh") == "true"
	return pharmacyID, timeRange, comparison, refresh, true
}

// GetAnalytics returns the full sales report for a pharmacy.
// GET /api/v1/pharmacy-admin/pharmacies/:id/analytics
func (h *AnalyticsHandler) GetAnalytics(c *gin.Context) {
	pharmacyID, timeRange, comparison, refresh, ok := reportQuery(c)
	if !ok {
		return
	}

	result := h.salesService.GetReport(c.Request.Context(), pharmacyID, timeRange, comparison, refresh)

	response := gin.H{
		"pharmacy_id": pharmacyID.String(),
		"time_range":  timeRange,
		"comparison":  comparison,
		"analytics":   result.Report,
		"from_cache":  result.FromCache,
	}
	if result.FetchError != "" {
		response["error"] = result.FetchError
	}
	c.JSON(http.StatusOK, response)
}

// GetSummary returns the headline KPIs.
// GET /api/v1/pharmacy-admin/pharmacies/:id/analytics/summary
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	pharmacyID, timeRange, comparison, refresh, ok := reportQuery(c)
	if !ok {
		return
	}

	result := h.salesService.GetReport(c.Request.Context(), pharmacyID, timeRange, comparison, refresh)
	c.JSON(http.StatusOK, gin.H{"summary": result.Report.Summary})
}

// GetChart returns the time-bucketed chart series.
// GET /api/v1/pharmacy-admin/pharmacies/:id/analytics/chart
func (h *AnalyticsHandler) GetChart(c *gin.Context) {
	pharmacyID, timeRange, comparison, refresh, ok := reportQuery(c)
	if !ok {
		return
	}

	result := h.salesService.GetReport(c.Request.Context(), pharmacyID, timeRange, comparison, refresh)
	c.JSON(http.StatusOK, gin.H{"chart": result.Report.Chart})
}

// GetTopProducts returns the top-selling products ranking.
// GET /api/v1/pharmacy-admin/pharmacies/:id/analytics/top-products
func (h *AnalyticsHandler) GetTopProducts(c *gin.Context) {
	pharmacyID, timeRange, comparison, refresh, ok := reportQuery(c)
	if !ok {
		return
	}

	result := h.salesService.GetReport(c.Request.Context(), pharmacyID, timeRange, comparison, refresh)
	c.JSON(http.StatusOK, gin.H{"top_products": result.Report.TopProducts})
}

// GetPaymentDistribution returns the cash/card breakdown.
// GET /api/v1/pharmacy-admin/pharmacies/:id/analytics/payment-distribution
func (h *AnalyticsHandler) GetPaymentDistribution(c *gin.Context) {
	pharmacyID, timeRange, comparison, refresh, ok := reportQuery(c)
	if !ok {
		return
	}

	result := h.salesService.GetReport(c.Request.Context(), pharmacyID, timeRange, comparison, refresh)
	c.JSON(http.StatusOK, gin.H{"payment_distribution": result.Report.PaymentDistribution})
}
