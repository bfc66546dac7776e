package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vyrodovalexey/conneg/internal/observability"
)

// unknownRoute labels requests that matched no route.
const unknownRoute = "unknown"

// Metrics returns a middleware that records request metrics. Routes are
// labelled by their pattern to keep cardinality bounded.
func Metrics(metrics *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.IncrementActiveRequests()
		defer metrics.DecrementActiveRequests()

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unknownRoute
		}
		metrics.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
