package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/belnav/belnav/internal/metrics"
)

// PrometheusMiddleware records request duration and count per route. The
// scrape endpoint itself is skipped so it does not count its own traffic.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath() // route pattern, not raw path (bounded label cardinality)
		if path == "" {
			path = "unknown"
		}
		if path == "/metrics" {
			c.Next()

			return
		}

		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
