// Package metrics exposes Prometheus collectors for the HTTP API and the garden domain.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts requests by method, route template and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "happiety_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks request latency by route template.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "happiety_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	GardensCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "happiety_gardens_created_total",
		Help: "Total number of gardens created",
	})

	MemoriesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "happiety_memories_created_total",
			Help: "Total number of memories created by type",
		},
		[]string{"type"},
	)

	// AccessCodeCollisionsTotal counts re-rolls caused by an access code already in use.
	AccessCodeCollisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "happiety_access_code_collisions_total",
		Help: "Total number of access code collisions during allocation",
	})
)

// RecordGardenCreated increments the gardens created counter.
func RecordGardenCreated() {
	GardensCreatedTotal.Inc()
}

// RecordMemoryCreated increments the memories created counter for a memory type.
func RecordMemoryCreated(memoryType string) {
	MemoriesCreatedTotal.WithLabelValues(memoryType).Inc()
}

// RecordAccessCodeCollision increments the access code collision counter.
func RecordAccessCodeCollision() {
	AccessCodeCollisionsTotal.Inc()
}

// Middleware records request count and latency using the matched route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus exposition format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
