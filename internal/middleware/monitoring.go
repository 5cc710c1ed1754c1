package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopdesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopdesk_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "path", "status"},
	)

	storeOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopdesk_store_operations_total",
			Help: "Total number of state store mutations",
		},
		[]string{"operation", "status"},
	)

	persistenceWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopdesk_persistence_writes_total",
			Help: "Total number of storage writes per key",
		},
		[]string{"key", "status"},
	)
)

func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}

func RecordStoreOperation(operation string, success bool) {
	storeOperations.WithLabelValues(operation, outcome(success)).Inc()
}

// RecordPersistenceWrite matches the persistence write hook signature.
func RecordPersistenceWrite(key string, err error) {
	persistenceWrites.WithLabelValues(key, outcome(err == nil)).Inc()
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
