package middleware

import (
	"strconv"
	"time"

	"github.com/HalleluyahGirl/ExpenseApp/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records per-route latency and request counts. The route
// template (not the raw URL) is used as the path label so record ids
// don't explode the cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		method := c.Request.Method
		duration := time.Since(start).Seconds()

		metrics.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	}
}
