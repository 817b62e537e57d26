package ipc

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thoreinstein/folco/internal/logging"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// requestID assigns every request an id, reusing the caller's header when
// present, and stores a request-scoped logger in the request context.
func requestID(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Header(RequestIDHeader, id)
		c.Set(RequestIDHeader, id)

		ctx := logging.NewContext(c.Request.Context(), logger.With("request_id", id))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// recovery turns a panic in a handler into a 500 response.
func recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					"request_id", c.GetString(RequestIDHeader),
					"error", err,
					"path", c.Request.URL.Path,
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, Response{
					ID:    c.GetString(RequestIDHeader),
					Error: "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// requestLogger logs each request after it completes.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "http request",
			"request_id", c.GetString(RequestIDHeader),
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}
