package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/pillpath-platform/service-analytics/internal/handlers"
	"github.com/pillpath-platform/service-analytics/internal/middleware"
)

// RouteConfig holds configuration for routes
type RouteConfig struct {
	AnalyticsHandler   *handlers.AnalyticsHandler
	OrderHandler       *handlers.OrderHandler
	ChatHandler        *handlers.ChatHandler
	PreferencesHandler *handlers.PreferencesHandler
	JWTManager         *middleware.JWTManager
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *RouteConfig) {
	// API v1 routes
	v1 := router.Group("/api/v1")

	// Pharmacy admin routes (require authentication and pharmacy admin role)
	admin := v1.Group("/pharmacy-admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWTManager))
	admin.Use(middleware.RequirePharmacyAdmin())
	{
		pharmacies := admin.Group("/pharmacies")
		{
			// Sales analytics
			pharmacies.GET("/:id/analytics", cfg.AnalyticsHandler.GetAnalytics)
			pharmacies.GET("/:id/analytics/summary", cfg.AnalyticsHandler.GetSummary)
			pharmacies.GET("/:id/analytics/chart", cfg.AnalyticsHandler.GetChart)
			pharmacies.GET("/:id/analytics/top-products", cfg.AnalyticsHandler.GetTopProducts)
			pharmacies.GET("/:id/analytics/payment-distribution", cfg.AnalyticsHandler.GetPaymentDistribution)

			// Order snapshots
			pharmacies.GET("/:id/orders", cfg.OrderHandler.GetOrders)
			pharmacies.POST("/:id/orders/sync", cfg.OrderHandler.SyncOrders)

			// Chat transcripts
			pharmacies.GET("/:id/chats/:chat_id/messages", cfg.ChatHandler.GetMessages)

			// Dashboard preferences
			pharmacies.GET("/:id/preferences/:key", cfg.PreferencesHandler.GetPreference)
			pharmacies.PUT("/:id/preferences/:key", cfg.PreferencesHandler.SetPreference)
		}
	}
}
