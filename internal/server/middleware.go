package server

import (
	"log/slog"
	"time"

	"github.com/casualjim/cfagui/pkg/slogx"
	"github.com/casualjim/cfagui/pkg/uuidx"
	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-Id"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuidx.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/healthz" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		slog.Log(c.Request.Context(), level, "request",
			slogx.LoggerName("server"),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slogx.Stringer("latency", time.Since(start)),
			slog.String("client", c.ClientIP()),
			slog.String("request_id", c.GetString("request_id")),
		)
	}
}
