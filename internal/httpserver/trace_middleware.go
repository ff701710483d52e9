package httpserver

import (
	"github.com/gin-gonic/gin"

	"taskcadence/pkg/trace"
)

// TraceMiddleware propagates an incoming X-Trace-ID, or mints one, so that
// log lines from a single request can be correlated.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(trace.HeaderName())
		if traceID == "" {
			traceID = trace.GenerateTraceID()
		}

		ctx := trace.WithContext(c.Request.Context(), traceID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(trace.HeaderName(), traceID)

		c.Next()
	}
}
