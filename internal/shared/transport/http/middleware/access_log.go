package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"Stormhold/internal/kit/logx"
	"Stormhold/internal/kit/tracex"
)

// AccessLog 给每个请求注入 trace_id 并在处理完成后写一条访问日志。
func AccessLog(log logx.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		ctx := tracex.WithTraceID(c.Request.Context(), tracex.NewTraceID())
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		log.WithContext(ctx).Info("access",
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
