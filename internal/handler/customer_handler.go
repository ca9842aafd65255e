package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"analytics-service/internal/analytics"
	"analytics-service/pkg/database"
	"analytics-service/pkg/logger"
	"analytics-service/prometheus"
)

// CartAbandonment returns abandonment timing and the most abandoned
// products and stages.
func CartAbandonment(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	analysis, err := analytics.New(database.GetDB()).CartAbandonmentAnalysis()
	if err != nil {
		log.Error("Failed to analyze cart abandonment", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to analyze cart abandonment")
	}

	prometheus.RecordReportQuery("cart_abandonment")
	return c.JSON(http.StatusOK, analysis)
}

// CustomerDemographics returns customer counts by age band, gender and
// location.
func CustomerDemographics(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	demographics, err := analytics.New(database.GetDB()).CustomerDemographics()
	if err != nil {
		log.Error("Failed to compute demographics", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to compute demographics")
	}

	prometheus.RecordReportQuery("customer_demographics")
	return c.JSON(http.StatusOK, demographics)
}

// PurchasePatterns returns frequently co-purchased product pairs and
// repeatedly purchased products.
func PurchasePatterns(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	patterns, err := analytics.New(database.GetDB()).PurchasePatterns()
	if err != nil {
		log.Error("Failed to compute purchase patterns", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to compute purchase patterns")
	}

	prometheus.RecordReportQuery("purchase_patterns")
	return c.JSON(http.StatusOK, patterns)
}
