package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexhtruong/canned/internal/canvas"
	"github.com/alexhtruong/canned/internal/service"
	"github.com/alexhtruong/canned/pkg/response"
)

// CanvasHandler Canvas 同步模块 HTTP 处理器
type CanvasHandler struct {
	syncSvc service.SyncService
}

// NewCanvasHandler 创建 CanvasHandler
func NewCanvasHandler(syncSvc service.SyncService) *CanvasHandler {
	return &CanvasHandler{syncSvc: syncSvc}
}

// Sync 触发一次全量同步（课程 + 活跃课程的作业）
// POST /api/v1/canvas/sync
func (h *CanvasHandler) Sync(c *gin.Context) {
	canvasUserID, ok := MustGetCanvasUserID(c)
	if !ok {
		return
	}

	result, err := h.syncSvc.Sync(c.Request.Context(), canvasUserID)
	if err != nil {
		switch {
		case errors.Is(err, canvas.ErrUpstreamUnavailable):
			response.Error(c, http.StatusBadGateway, 30001, "上游 Canvas 不可用")
		case errors.Is(err, service.ErrSyncFailed):
			response.Error(c, http.StatusInternalServerError, 30002, "同步失败")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// ListRuns 查询同步运行历史
// GET /api/v1/canvas/runs?limit=20
func (h *CanvasHandler) ListRuns(c *gin.Context) {
	canvasUserID, ok := MustGetCanvasUserID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			response.BadRequest(c, 10001, "limit 必须是 1-100 的整数")
			return
		}
		limit = n
	}

	runs, err := h.syncSvc.ListRuns(c.Request.Context(), canvasUserID, limit)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, runs)
}
