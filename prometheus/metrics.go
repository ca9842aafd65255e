package prometheus

import (
	"time"

	"analytics-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Report metrics
	ReportQueriesCounter prometheus.CounterVec

	// Model training metrics
	ModelTrainingCounter  prometheus.CounterVec
	ModelTrainingDuration prometheus.HistogramVec

	// Inventory metrics
	StockOperationsCounter prometheus.CounterVec
	LowStockGauge          prometheus.Gauge
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(cfg *config.Config) {
	prefix := cfg.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful authentications",
		},
	)

	AuthErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"reason"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	ReportQueriesCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_report_queries_total",
			Help: "Total number of reporting queries served",
		},
		[]string{"report"},
	)

	ModelTrainingCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_model_training_total",
			Help: "Total number of model training runs",
		},
		[]string{"model"},
	)

	ModelTrainingDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_model_training_duration_seconds",
			Help:    "Duration of model training runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model"},
	)

	StockOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_stock_operations_total",
			Help: "Total number of stock mutations",
		},
		[]string{"operation"},
	)

	LowStockGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: prefix + "_low_stock_products",
			Help: "Number of products currently below the low-stock threshold",
		},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordReportQuery increments the counter for a served report
func RecordReportQuery(report string) {
	ReportQueriesCounter.WithLabelValues(report).Inc()
}

// RecordAuthError increments the auth error counter with a reason label
func RecordAuthError(reason string) {
	AuthErrorsCounter.WithLabelValues(reason).Inc()
}

// RecordModelTraining observes one training run of the named model
func RecordModelTraining(model string, startTime time.Time) {
	ModelTrainingCounter.WithLabelValues(model).Inc()
	ModelTrainingDuration.WithLabelValues(model).Observe(time.Since(startTime).Seconds())
}

// RecordStockOperation increments the counter for stock mutations
func RecordStockOperation(operation string) {
	StockOperationsCounter.WithLabelValues(operation).Inc()
}
