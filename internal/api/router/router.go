package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/alexhtruong/canned/config"
	"github.com/alexhtruong/canned/internal/api/handler"
	"github.com/alexhtruong/canned/internal/api/middleware"
	"github.com/alexhtruong/canned/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1（全部需要 API Key 认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.APIKeyAuth(&cfg.Auth))
	{
		// 同步模块（触发同步有速率限制：每用户每分钟 5 次）
		canvasGroup := v1.Group("/canvas")
		{
			canvasGroup.POST("/sync", middleware.RateLimit(rdb, 5, time.Minute), h.Canvas.Sync)
			canvasGroup.GET("/runs", h.Canvas.ListRuns)
		}

		// 课程模块
		v1.GET("/courses", h.Course.List)

		// 作业模块
		assignments := v1.Group("/assignments")
		{
			assignments.GET("", h.Assignment.List)
			assignments.PATCH("/:id/submission", h.Assignment.UpdateSubmission)
		}

		// 订阅模块
		subscriptions := v1.Group("/subscriptions")
		{
			subscriptions.GET("", h.Subscription.List)
			subscriptions.GET("/history", h.Subscription.History)
			subscriptions.POST("/courses/:id", h.Subscription.Subscribe)
			subscriptions.DELETE("/courses/:id", h.Subscription.Unsubscribe)
			subscriptions.PUT("/courses/:id", h.Subscription.Set)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/assignments", h.Export.ExportAssignments)
			export.GET("/calendar", h.Export.ExportCalendar)
		}
	}

	return r
}
