package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/ariebrainware/clinic-records/util"
	"github.com/gin-gonic/gin"
)

// EndpointCallLogger emits one ENDPOINT_CALL audit event per request. Requests
// whose path starts with one of skipPrefixes, such as the static /uploads and
// /pdfs routes, are not recorded.
func EndpointCallLogger(skipPrefixes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, prefix := range skipPrefixes {
			if strings.HasPrefix(c.Request.URL.Path, prefix) {
				c.Next()
				return
			}
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		details := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        route,
			"raw_path":    c.Request.URL.Path,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"query":       c.Request.URL.RawQuery,
		}
		if len(c.Errors) > 0 {
			details["errors"] = c.Errors.String()
		}

		util.LogAuditEvent(util.AuditEvent{
			EventType: util.EventEndpointCall,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Message:   fmt.Sprintf("%s %s -> %d", c.Request.Method, c.Request.URL.Path, status),
			Details:   details,
		})
	}
}
