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

// DashboardSummary returns the headline metrics for the default landing
// view: sales count, revenue, conversion rate, top products and total stock
// over the trailing 30 days unless a range is given.
func DashboardSummary(c echo.Context) error {
	log := logger.FromEcho(c)

	start, end, err := dateRange(c, 30)
	if err != nil {
		return err
	}
	limit, err := positiveIntParam(c, "limit", 5)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	svc := analytics.New(database.GetDB())
	inv := inventory.New(database.GetDB())

	totalSales, err := svc.TotalSales(start, end)
	if err != nil {
		log.Error("Failed to compute total sales", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to build dashboard summary")
	}
	totalRevenue, err := svc.TotalRevenue(start, end)
	if err != nil {
		log.Error("Failed to compute total revenue", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to build dashboard summary")
	}
	conversion, err := svc.ConversionRate(start, end)
	if err != nil {
		log.Error("Failed to compute conversion rate", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to build dashboard summary")
	}
	topProducts, err := svc.TopProducts(start, end, limit)
	if err != nil {
		log.Error("Failed to compute top products", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to build dashboard summary")
	}
	totalStock, err := inv.TotalStock()
	if err != nil {
		log.Error("Failed to compute total stock", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to build dashboard summary")
	}

	prometheus.RecordReportQuery("dashboard_summary")
	return c.JSON(http.StatusOK, echo.Map{
		"start_date":      start,
		"end_date":        end,
		"total_sales":     totalSales,
		"total_revenue":   totalRevenue,
		"conversion_rate": conversion,
		"top_products":    topProducts,
		"total_stock":     totalStock,
	})
}

// SalesTrends returns sales and revenue series bucketed by day, week or
// month over the trailing 90 days unless a range is given.
func SalesTrends(c echo.Context) error {
	log := logger.FromEcho(c)

	start, end, err := dateRange(c, 90)
	if err != nil {
		return err
	}
	interval := c.QueryParam("interval")
	if interval == "" {
		interval = "day"
	}
	switch interval {
	case "day", "week", "month":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "interval must be one of day, week, month")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	trends, err := analytics.New(database.GetDB()).SalesTrends(start, end, interval)
	if err != nil {
		log.Error("Failed to compute sales trends", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to compute sales trends")
	}

	prometheus.RecordReportQuery("sales_trends")
	return c.JSON(http.StatusOK, echo.Map{
		"start_date": start,
		"end_date":   end,
		"interval":   interval,
		"labels":     trends.Labels,
		"sales":      trends.Sales,
		"revenue":    trends.Revenue,
	})
}

// LocationHeatmap returns session counts grouped by customer location.
func LocationHeatmap(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	locations, err := analytics.New(database.GetDB()).LocationHeatmap()
	if err != nil {
		log.Error("Failed to compute location heatmap", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to compute location heatmap")
	}

	prometheus.RecordReportQuery("location_heatmap")
	return c.JSON(http.StatusOK, echo.Map{"locations": locations})
}
