package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alexhtruong/canned/pkg/redis"
	"github.com/alexhtruong/canned/pkg/response"
)

// rateLimitKey 构造限流计数的 Redis key
// 已认证请求按 canvas_user_id 计数，未认证请求回落到客户端 IP
func rateLimitKey(c *gin.Context) string {
	if uid := c.GetInt64(ContextKeyCanvasUserID); uid != 0 {
		return fmt.Sprintf("rate_limit:user:%d:%s", uid, c.FullPath())
	}
	return fmt.Sprintf("rate_limit:ip:%s:%s", c.ClientIP(), c.FullPath())
}

// RateLimit 基于 Redis 固定窗口的速率限制中间件
// limit: 窗口内允许的最大请求数
// window: 窗口时长
// rdb 为 nil 时降级放行
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		allowed, err := rdb.CheckRateLimit(c.Request.Context(), rateLimitKey(c), limit, window)
		if err != nil {
			// Redis 出错时降级放行
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 10004, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}

		c.Next()
	}
}
