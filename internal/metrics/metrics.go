package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CartOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_operations_total",
			Help: "Cart operations by kind and result",
		},
		[]string{"operation", "result"},
	)

	ImageDerivations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_derivations_total",
			Help: "Product image derivations by result",
		},
		[]string{"result"},
	)
)

func RecordHTTPRequest(method, path string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func RecordCartOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	CartOperations.WithLabelValues(operation, result).Inc()
}
