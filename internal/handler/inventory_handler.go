package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"analytics-service/internal/analytics"
	"analytics-service/internal/inventory"
	"analytics-service/pkg/database"
	"analytics-service/pkg/logger"
	"analytics-service/prometheus"
)

// InventoryStock returns stock levels with a low/medium/high status,
// optionally filtered by category.
func InventoryStock(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	rows, err := inventory.New(database.GetDB()).Stock(c.QueryParam("category"))
	if err != nil {
		log.Error("Failed to list stock", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to list stock")
	}

	prometheus.RecordReportQuery("inventory_stock")
	return c.JSON(http.StatusOK, echo.Map{"stock": rows})
}

// LowStockAlerts returns products at or below the alert threshold with
// depletion estimates from recent sales.
func LowStockAlerts(c echo.Context) error {
	log := logger.FromEcho(c)

	threshold, err := positiveIntParam(c, "threshold", cfg.Analytics.LowStockThreshold)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	alerts, err := inventory.New(database.GetDB()).LowStockAlerts(threshold)
	if err != nil {
		log.Error("Failed to compute low stock alerts", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to compute low stock alerts")
	}

	prometheus.LowStockGauge.Set(float64(len(alerts)))
	prometheus.RecordReportQuery("low_stock_alerts")
	return c.JSON(http.StatusOK, echo.Map{
		"threshold": threshold,
		"alerts":    alerts,
	})
}

// SupplierPerformance returns supplier delivery metrics, optionally for a
// single supplier.
func SupplierPerformance(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	rows, err := inventory.New(database.GetDB()).SupplierPerformances(c.QueryParam("supplier_id"))
	if err != nil {
		log.Error("Failed to compute supplier performance", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to compute supplier performance")
	}

	prometheus.RecordReportQuery("supplier_performance")
	return c.JSON(http.StatusOK, echo.Map{"suppliers": rows})
}

// DiscountImpact returns sales volume and revenue grouped by discount band,
// optionally for a single product.
func DiscountImpact(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	bands, err := analytics.New(database.GetDB()).DiscountImpact(c.QueryParam("product_id"))
	if err != nil {
		log.Error("Failed to compute discount impact", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to compute discount impact")
	}

	prometheus.RecordReportQuery("discount_impact")
	return c.JSON(http.StatusOK, echo.Map{"bands": bands})
}

// StockUpdateRequest carries a stock level change.
type StockUpdateRequest struct {
	NewStock *int `json:"new_stock"`
}

// UpdateStock sets a product's stock level.
func UpdateStock(c echo.Context) error {
	log := logger.FromEcho(c)
	productID := c.Param("id")

	var req StockUpdateRequest
	if err := c.Bind(&req); err != nil || req.NewStock == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "new_stock is required")
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	result, err := inventory.New(database.GetDB()).UpdateStock(productID, *req.NewStock)
	if err != nil {
		log.Error("Failed to update stock",
			zap.String("product_id", productID), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to update stock")
	}
	if !result.Success {
		status := http.StatusBadRequest
		if result.Message == "product not found" {
			status = http.StatusNotFound
		}
		return c.JSON(status, result)
	}

	prometheus.RecordStockOperation("update")
	log.Info("Stock updated",
		zap.String("product_id", productID), zap.Int("new_stock", *req.NewStock))
	return c.JSON(http.StatusOK, result)
}

// RestockRequest carries a restock order.
type RestockRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateRestockOrder places a simulated restock order with the product's
// supplier.
func CreateRestockOrder(c echo.Context) error {
	log := logger.FromEcho(c)

	var req RestockRequest
	if err := c.Bind(&req); err != nil || req.ProductID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}
	if req.Quantity <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity must be a positive integer")
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	order, err := inventory.New(database.GetDB()).CreateRestockOrder(req.ProductID, req.Quantity)
	if err != nil {
		log.Error("Failed to create restock order",
			zap.String("product_id", req.ProductID), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to create restock order")
	}
	if !order.Success {
		return c.JSON(http.StatusNotFound, order)
	}

	prometheus.RecordStockOperation("restock")
	return c.JSON(http.StatusOK, order)
}
