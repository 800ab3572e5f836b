package middleware

import (
	"time"

	"job-board/internal/metrics"

	"github.com/gin-gonic/gin"
)

const unmatchedRoute = "unmatched"

// MetricsMiddleware records request counts and latency labelled by the route
// template, never the raw path.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		m.ObserveRequest(c.Request.Method, routeLabel(c), c.Writer.Status(), time.Since(start))
	}
}

func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}
