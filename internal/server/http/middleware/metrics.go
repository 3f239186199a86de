package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/restaurant/internal/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics records request count and latency per matched route.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
