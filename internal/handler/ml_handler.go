package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"analytics-service/internal/mlearn"
	"analytics-service/pkg/database"
	"analytics-service/pkg/logger"
	"analytics-service/prometheus"
)

func engine() *mlearn.Engine {
	return mlearn.New(database.GetDB(), cfg.Analytics.ModelsDir)
}

// CustomerSegments clusters customers on purchasing behavior and returns
// the labeled segment profiles.
func CustomerSegments(c echo.Context) error {
	log := logger.FromEcho(c)

	k, err := positiveIntParam(c, "clusters", mlearn.DefaultSegmentCount)
	if err != nil {
		return err
	}

	start := time.Now()
	segments, err := engine().Segments(k)
	if err != nil {
		log.Error("Failed to segment customers", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to segment customers")
	}

	prometheus.RecordModelTraining("customer_segmentation", start)
	return c.JSON(http.StatusOK, echo.Map{
		"clusters": k,
		"segments": segments,
	})
}

// CartAbandonmentPrediction scores an active session's abandonment risk.
func CartAbandonmentPrediction(c echo.Context) error {
	log := logger.FromEcho(c)

	sessionID := c.QueryParam("session_id")
	if sessionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "session_id is required")
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	assessment, err := engine().AbandonmentRisk(sessionID)
	if err != nil {
		log.Error("Failed to score abandonment risk",
			zap.String("session_id", sessionID), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to score abandonment risk")
	}
	if assessment == nil {
		return errorJSON(c, http.StatusNotFound, "Session not found")
	}

	return c.JSON(http.StatusOK, assessment)
}

// ProductRecommendations returns products suggested for a customer.
func ProductRecommendations(c echo.Context) error {
	log := logger.FromEcho(c)

	customerID := c.QueryParam("customer_id")
	if customerID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "customer_id is required")
	}
	limit, err := positiveIntParam(c, "limit", mlearn.DefaultRecommendationLimit)
	if err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	recommendations, err := engine().Recommendations(customerID, limit)
	if err != nil {
		log.Error("Failed to build recommendations",
			zap.String("customer_id", customerID), zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to build recommendations")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"customer_id":     customerID,
		"recommendations": recommendations,
	})
}

// TrainAbandonmentModel refits the abandonment model and persists the
// artifact.
func TrainAbandonmentModel(c echo.Context) error {
	log := logger.FromEcho(c)

	start := time.Now()
	if err := engine().TrainAbandonmentModel(); err != nil {
		log.Error("Failed to train abandonment model", zap.Error(err))
		return errorJSON(c, http.StatusInternalServerError, "Failed to train abandonment model")
	}

	prometheus.RecordModelTraining("cart_abandonment", start)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Abandonment model trained",
	})
}
