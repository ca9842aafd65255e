package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"analytics-service/internal/analytics"
	"analytics-service/internal/mlearn"
	"analytics-service/pkg/database"
	"analytics-service/pkg/logger"
	"analytics-service/prometheus"
)

// ReviewSentiment returns the positive/neutral/negative breakdown of review
// scores, optionally filtered by product_id or category.
func ReviewSentiment(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	summary, err := analytics.New(database.GetDB()).ReviewSentiment(
		c.QueryParam("product_id"), c.QueryParam("category"))
	if err != nil {
		log.Error("Failed to compute review sentiment", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to compute review sentiment")
	}

	prometheus.RecordReportQuery("review_sentiment")
	return c.JSON(http.StatusOK, summary)
}

// ReviewTopics extracts themes from review text and returns their keywords,
// sizes and score profiles.
func ReviewTopics(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	report, err := mlearn.New(database.GetDB(), cfg.Analytics.ModelsDir).ReviewTopics()
	if err != nil {
		log.Error("Failed to extract review topics", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to extract review topics")
	}

	prometheus.RecordReportQuery("review_topics")
	return c.JSON(http.StatusOK, report)
}

// ReviewScores returns per-product and per-category review averages and the
// overall score histogram.
func ReviewScores(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	report, err := analytics.New(database.GetDB()).ReviewScores()
	if err != nil {
		log.Error("Failed to compute review scores", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to compute review scores")
	}

	prometheus.RecordReportQuery("review_scores")
	return c.JSON(http.StatusOK, report)
}

// ReviewResponseImpact reports reply coverage on low-score reviews and the
// engagement difference between replied and unreplied reviews.
func ReviewResponseImpact(c echo.Context) error {
	log := logger.FromEcho(c)

	defer prometheus.TrackDBOperation("query")(time.Now())
	impact, err := analytics.New(database.GetDB()).ReviewResponseImpact()
	if err != nil {
		log.Error("Failed to compute response impact", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to compute response impact")
	}

	prometheus.RecordReportQuery("review_response_impact")
	return c.JSON(http.StatusOK, impact)
}
