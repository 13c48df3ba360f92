package middleware

import (
	"context"
	"strings"

	"github.com/fuelsync/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling attaches method, route and resource labels to the profile
// samples of each API request. Unmatched routes, health and swagger are
// left unlabelled.
func Profiling() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || route == "/health" || strings.HasPrefix(route, "/swagger") {
			c.Next()
			return
		}
		labels := map[string]string{
			"method": c.Request.Method,
			"route":  route,
		}
		if resource := resourceFromRoute(route); resource != "" {
			labels["resource"] = resource
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// resourceFromRoute returns the first segment after the version,
// e.g. "/api/v1/nozzle-readings/:id" gives "nozzle-readings"
func resourceFromRoute(route string) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	if len(parts) >= 3 && parts[0] == "api" {
		return parts[2]
	}
	return ""
}
