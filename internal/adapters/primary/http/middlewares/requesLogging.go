package middlewares

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// пробы дергаются часто, пишем их только в debug
var quietPaths = map[string]struct{}{
	"/liveness": {},
	"/health":   {},
	"/ready":    {},
}

func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		req := c.Request

		c.Next()

		status := c.Writer.Status()

		var level slog.Level
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		default:
			level = slog.LevelInfo
			if _, ok := quietPaths[req.URL.Path]; ok {
				level = slog.LevelDebug
			}
		}

		log.LogAttrs(req.Context(), level, "request completed",
			slog.String("method", req.Method),
			slog.String("path", req.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("response_size", c.Writer.Size()),
			slog.String("remote_addr", req.RemoteAddr),
		)
	}
}
