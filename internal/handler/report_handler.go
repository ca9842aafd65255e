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

// ExportReport writes a CSV report to the configured reports directory and
// returns its filename.
func ExportReport(c echo.Context) error {
	log := logger.FromEcho(c)

	reportType := c.QueryParam("type")
	if reportType == "" {
		reportType = "summary"
	}
	switch reportType {
	case "summary", "sales":
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "type must be one of summary, sales")
	}

	start, end, err := dateRange(c, 30)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	filename, err := analytics.New(database.GetDB()).ExportReport(cfg.Analytics.ReportsDir, reportType, start, end)
	if err != nil {
		log.Error("Failed to export report",
			zap.String("type", reportType), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to export report")
	}

	prometheus.RecordReportQuery("export_" + reportType)
	log.Info("Report exported",
		zap.String("type", reportType), zap.String("filename", filename))
	return c.JSON(http.StatusOK, echo.Map{
		"success":    true,
		"report":     reportType,
		"filename":   filename,
		"start_date": start,
		"end_date":   end,
	})
}
