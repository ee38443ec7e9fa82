package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/alexhtruong/canned/internal/api/middleware"
	"github.com/alexhtruong/canned/pkg/response"
)

// MustGetCanvasUserID 从 Gin 上下文中安全提取 canvas_user_id。
// 如果认证中间件未正确注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetCanvasUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(middleware.ContextKeyCanvasUserID)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return 0, false
	}
	id, ok := v.(int64)
	if !ok || id == 0 {
		response.Unauthorized(c, 10002, "未认证")
		return 0, false
	}
	return id, true
}
