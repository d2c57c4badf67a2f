package middlewares

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
			Name: "storefront_gateway_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_gateway_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	cartOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_gateway_cart_operations_total",
			Help: "Cart operations by kind and outcome",
		},
		[]string{"operation", "outcome"},
	)

	orderOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_gateway_order_operations_total",
			Help: "Order operations by kind and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// PrometheusMiddleware records request counts and latency, labeled by the
// matched route pattern so path parameters don't blow up cardinality.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(
			ctx.Request.Method,
			path,
			strconv.Itoa(ctx.Writer.Status()),
		).Inc()
		httpRequestDuration.WithLabelValues(ctx.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}

func RecordCartOperation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	cartOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

func RecordOrderOperation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	orderOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
