package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/daleyoon76/saas-idea-generator/internal/observability"
)

// Metrics records API request counts and latency keyed by route template.
// Requests that matched no route share the "unmatched" label, and the routes
// in skip (health checks, the scrape endpoint) are not recorded at all. A nil m
// disables the middleware.
func Metrics(m *observability.Metrics, skip ...string) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	skipped := make(map[string]struct{}, len(skip))
	for _, s := range skip {
		skipped[s] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := skipped[c.FullPath()]; ok {
			c.Next()
			return
		}
		start := time.Now()
		m.ApiInflightInc()
		defer m.ApiInflightDec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
