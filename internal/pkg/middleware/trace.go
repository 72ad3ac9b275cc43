package middleware

import (
	"svu_forum/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TraceMiddleware 添加请求追踪ID
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 尝试从请求头获取 TraceID，如果没有则生成新的
		traceID := c.GetHeader("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.New().String()
		}

		// 设置到 context 和响应头
		c.Set("traceID", traceID)
		c.Header("X-Trace-ID", traceID)

		c.Next()
	}
}

// TraceLogger 返回带 trace_id 字段的 logger，handler 内记录业务日志时使用
func TraceLogger(c *gin.Context) *zap.Logger {
	if traceID := c.GetString("traceID"); traceID != "" {
		return logger.L().With(zap.String("trace_id", traceID))
	}
	return logger.L()
}
