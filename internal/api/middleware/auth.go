package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/alexhtruong/canned/config"
	"github.com/alexhtruong/canned/pkg/response"
)

// 上下文键：认证中间件注入，Handler 通过 context_helper 读取
const (
	ContextKeyCanvasUserID = "canvas_user_id"
	ContextKeyUserName     = "user_name"
)

// APIKeyAuth API Key 认证中间件
// 从 X-API-Key 头读取凭证，按位置映射到预置的两个用户
// 逐一恒定时间比较，避免侧信道泄露
func APIKeyAuth(cfg *config.AuthConfig) gin.HandlerFunc {
	keys := cfg.Keys()

	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			response.Unauthorized(c, 10002, "缺少 API Key")
			c.Abort()
			return
		}

		matched := -1
		for i, key := range keys {
			if subtle.ConstantTimeCompare([]byte(apiKey), []byte(key)) == 1 {
				matched = i
			}
		}
		if matched < 0 || matched >= len(cfg.Users) {
			response.Unauthorized(c, 10002, "API Key 无效")
			c.Abort()
			return
		}

		user := cfg.Users[matched]
		c.Set(ContextKeyCanvasUserID, user.CanvasID)
		c.Set(ContextKeyUserName, user.Name)

		c.Next()
	}
}
