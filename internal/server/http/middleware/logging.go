package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID carries the request identifier in both directions.
const HeaderRequestID = "X-Request-ID"

const requestIDKey = "request_id"

type loggerKey struct{}

// RequestID assigns every request an identifier, reusing the caller's one when present,
// and stores a logger carrying it in the request context.
func RequestID(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(HeaderRequestID, id)

		reqLogger := logger.With(slog.String("request_id", id))
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), loggerKey{}, reqLogger))
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger or fallback when there is none.
func LoggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return fallback
}

// RequestLogger logs information about incoming requests using slog.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		}
		logger.LogAttrs(c.Request.Context(), level, "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.String("request_id", c.GetString(requestIDKey)),
		)
	}
}
