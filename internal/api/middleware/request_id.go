package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDKey    = "request_id"
	headerRequestID = "X-Request-ID"

	// 外部传入的 Request-ID 超长时丢弃重生成，防止日志注入
	requestIDMaxLen = 64
)

// RequestID 请求追踪 ID 中间件
// 优先沿用调用方携带的 X-Request-ID，缺失或非法时生成新 UUID
// 写入 gin.Context 供日志中间件读取，并回显到响应头
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(headerRequestID)
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.New().String()
		}

		c.Set(requestIDKey, rid)
		c.Header(headerRequestID, rid)

		c.Next()
	}
}
