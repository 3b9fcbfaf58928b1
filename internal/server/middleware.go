package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Next()
	}
}

// requestLogger tags every request with an ID and logs start/end with
// latency and status.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		if path == "/healthcheck" {
			c.Next()
			return
		}

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Writer.Header().Set(requestIDHeader, requestID)

		reqLogger := logger.With(
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
		)
		reqLogger.Debug("request started")

		c.Next()

		status := c.Writer.Status()
		reqLogger = reqLogger.With(
			"status", status,
			"latency", time.Since(start).String(),
		)
		switch {
		case status >= http.StatusInternalServerError:
			reqLogger.Error("request failed")
		case status >= http.StatusBadRequest:
			reqLogger.Warn("request rejected")
		default:
			reqLogger.Info("request completed")
		}
	}
}

// recovery turns panics into logged 500 responses instead of dropped
// connections.
func recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"panic", fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
