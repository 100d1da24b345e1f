package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/galymzhantore/teachload-api/internal/service"
)

// Operational endpoints are scraped constantly; instrumenting them
// would drown the solve and instance series in probe noise.
var unobservedPaths = map[string]struct{}{
	"/health":  {},
	"/ready":   {},
	"/metrics": {},
}

// Metrics instruments API traffic with the shared metrics service.
// Requests are labeled by the matched route pattern so every result id
// does not mint a fresh label value.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		if _, skip := unobservedPaths[c.Request.URL.Path]; skip {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			// 404s and unrouted probes share one label.
			route = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
