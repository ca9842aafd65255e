package main

import (
	"net/http"

	"analytics-service/internal/authz"
	"analytics-service/internal/handler"
	mid "analytics-service/internal/middleware"
	"analytics-service/pkg/config"
	"analytics-service/pkg/database"
	"analytics-service/pkg/jwtutil"
	"analytics-service/pkg/logger"
	"analytics-service/prometheus"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Missing .env is fine; environment variables win either way.
	_ = godotenv.Load()

	appConfig, err := config.Load("analytics-service")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting analytics-service", appConfig.LogFields()...)

	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	handler.Init(appConfig)

	e := echo.New()

	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", handler.HealthCheck)

	// Login is the only open API route.
	e.POST("/api/users/login", handler.Login)

	dashboard := e.Group("/api/dashboard", mid.AuthMiddleware, mid.RequireFeature(authz.FeatureDashboard))
	dashboard.GET("/summary", handler.DashboardSummary)
	dashboard.GET("/sales_trends", handler.SalesTrends)
	dashboard.GET("/location_heatmap", handler.LocationHeatmap)

	customer := e.Group("/api/customer", mid.AuthMiddleware, mid.RequireFeature(authz.FeatureCustomerAnalysis))
	customer.GET("/cart_abandonment", handler.CartAbandonment)
	customer.GET("/demographics", handler.CustomerDemographics)
	customer.GET("/purchase_patterns", handler.PurchasePatterns)

	reviews := e.Group("/api/reviews", mid.AuthMiddleware, mid.RequireFeature(authz.FeatureReviews))
	reviews.GET("/sentiment", handler.ReviewSentiment)
	reviews.GET("/topics", handler.ReviewTopics)
	reviews.GET("/scores", handler.ReviewScores)
	reviews.GET("/response_impact", handler.ReviewResponseImpact)

	ml := e.Group("/api/ml", mid.AuthMiddleware, mid.RequireFeature(authz.FeatureML))
	ml.GET("/customer_segments", handler.CustomerSegments)
	ml.GET("/cart_abandonment_prediction", handler.CartAbandonmentPrediction)
	ml.GET("/product_recommendations", handler.ProductRecommendations)
	ml.POST("/train_abandonment", handler.TrainAbandonmentModel)

	inv := e.Group("/api/inventory", mid.AuthMiddleware, mid.RequireFeature(authz.FeatureInventory))
	inv.GET("/stock", handler.InventoryStock)
	inv.GET("/alerts", handler.LowStockAlerts)
	inv.GET("/supplier_performance", handler.SupplierPerformance)
	inv.GET("/discount_impact", handler.DiscountImpact)
	inv.PUT("/stock/:id", handler.UpdateStock)
	inv.POST("/restock", handler.CreateRestockOrder)

	users := e.Group("/api/users", mid.AuthMiddleware)
	users.GET("/permissions", handler.Permissions)
	admin := users.Group("", mid.RequireFeature(authz.FeatureUserManagement))
	admin.GET("", handler.ListUsers)
	admin.POST("", handler.CreateUser)
	admin.PUT("/:id", handler.UpdateUser)
	admin.DELETE("/:id", handler.DeleteUser)

	reports := e.Group("/api/reports", mid.AuthMiddleware, mid.RequireFeature(authz.FeatureReports))
	reports.GET("/export", handler.ExportReport)

	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != http.ErrServerClosed {
		log.Fatal("Server error", zap.Error(err))
	}
}
