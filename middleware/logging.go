package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	TraceIDHeader     = "X-Trace-ID"
	TraceParentHeader = "traceparent"

	// TraceIDKey and UserIDKey are gin context keys.
	TraceIDKey = "trace_id"
	UserIDKey  = "user_id"
)

// quietPaths are logged at debug level so probes and scrapes do not flood the log.
var quietPaths = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/metrics": true,
}

// GetTraceID extracts the trace id from W3C traceparent or X-Trace-ID,
// generating one when neither is present.
func GetTraceID(c *gin.Context) string {
	// traceparent: version-trace_id-parent_id-flags
	if parts := strings.Split(c.GetHeader(TraceParentHeader), "-"); len(parts) == 4 && parts[1] != "" {
		return parts[1]
	}

	if traceID := strings.TrimSpace(c.GetHeader(TraceIDHeader)); traceID != "" {
		return traceID
	}

	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// LoggingMiddleware attaches a trace-scoped zerolog logger to the request
// context and logs one line per request.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		traceID := GetTraceID(c)
		c.Set(TraceIDKey, traceID)

		logger := log.With().Str("trace_id", traceID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Header(TraceIDHeader, traceID)

		c.Next()

		status := c.Writer.Status()

		var event *zerolog.Event
		switch {
		case status >= 500:
			event = logger.Error()
		case status >= 400:
			event = logger.Warn()
		case quietPaths[path]:
			event = logger.Debug()
		default:
			event = logger.Info()
		}

		if userID := c.GetString(UserIDKey); userID != "" {
			event = event.Str("user_id", userID)
		}

		event.
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Msg("HTTP request")
	}
}
