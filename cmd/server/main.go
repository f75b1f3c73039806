package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pillpath-platform/service-analytics/internal/clients"
	"github.com/pillpath-platform/service-analytics/internal/config"
	"github.com/pillpath-platform/service-analytics/internal/database"
	"github.com/pillpath-platform/service-analytics/internal/events"
	"github.com/pillpath-platform/service-analytics/internal/handlers"
	"github.com/pillpath-platform/service-analytics/internal/kvstore"
	"github.com/pillpath-platform/service-analytics/internal/logger"
	"github.com/pillpath-platform/service-analytics/internal/middleware"
	"github.com/pillpath-platform/service-analytics/internal/repository"
	"github.com/pillpath-platform/service-analytics/internal/routes"
	"github.com/pillpath-platform/service-analytics/internal/services"
)

func main() {
	// Load .env file in development
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewLogger(cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Connect to database
	db, err := database.Connect(cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// Connect to Redis (optional - reports are recomputed on cache miss)
	var redisClient *redis.Client
	rc := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rc.Ping(pingCtx).Err(); err != nil {
		zapLogger.Warn("Failed to connect to Redis, report caching disabled", zap.Error(err))
	} else {
		zapLogger.Info("Connected to Redis", zap.String("host", cfg.Redis.Host))
		redisClient = rc
	}
	cancelPing()

	// Initialize JWT manager for auth middleware
	jwtManager := middleware.NewJWTManager(cfg.JWT.Secret)

	// Initialize repositories
	orderRepo := repository.NewPharmacyOrderRepository(db)

	// Initialize pharmacy backend client
	pharmacyClient := clients.NewPharmacyClient(cfg.Services.PharmacyBackendURL, zapLogger)

	// Preference store: redis-backed when available, in-memory otherwise
	var prefStore kvstore.Store
	if redisClient != nil {
		prefStore = kvstore.NewRedis(redisClient, "prefs", 0)
	} else {
		prefStore = kvstore.NewMemory()
	}

	// Initialize analytics cache
	cacheService := services.NewAnalyticsCacheService(redisClient, cfg.Cache.ReportTTL, zapLogger)

	// Connect to NATS (optional - only if configured)
	var natsConn *nats.Conn
	var eventPublisher *events.Publisher
	var eventSubscriber *events.Subscriber

	if cfg.NATS.URL != "" {
		natsConn, err = nats.Connect(cfg.NATS.URL)
		if err != nil {
			zapLogger.Warn("Failed to connect to NATS, event-driven sync disabled", zap.Error(err))
		} else {
			zapLogger.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))
			eventPublisher = events.NewPublisher(natsConn, zapLogger)
		}
	}

	// Initialize services
	orderSyncService := services.NewOrderSyncService(orderRepo, pharmacyClient, cacheService, eventPublisher, zapLogger)
	salesService := services.NewSalesService(orderRepo, pharmacyClient, cacheService, zapLogger)

	// Start NATS subscriber if connected
	if natsConn != nil {
		eventSubscriber = events.NewSubscriber(natsConn, orderSyncService, zapLogger)
		if err := eventSubscriber.Start(); err != nil {
			zapLogger.Warn("Failed to start event subscriber", zap.Error(err))
		}
	}

	// Initialize handlers
	analyticsHandler := handlers.NewAnalyticsHandler(salesService, zapLogger)
	orderHandler := handlers.NewOrderHandler(orderSyncService, zapLogger)
	chatHandler := handlers.NewChatHandler(pharmacyClient, zapLogger)
	preferencesHandler := handlers.NewPreferencesHandler(prefStore, zapLogger)

	// Set Gin mode
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.LoggerMiddleware(zapLogger))

	// CORS - use environment-based configuration
	allowedOrigins := getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001")
	router.Use(middleware.CORSWithOrigins(allowedOrigins))

	// Security headers
	router.Use(middleware.SecurityHeaders())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "analytics",
			"time":    time.Now().UTC(),
		})
	})

	// Setup routes using the routes package
	routes.SetupRoutes(router, &routes.RouteConfig{
		AnalyticsHandler:   analyticsHandler,
		OrderHandler:       orderHandler,
		ChatHandler:        chatHandler,
		PreferencesHandler: preferencesHandler,
		JWTManager:         jwtManager,
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		zapLogger.Info("🚀 Analytics service starting on port " + cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")
	if eventSubscriber != nil {
		eventSubscriber.Stop()
	}
	if natsConn != nil {
		natsConn.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
