package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexhtruong/canned/internal/dto"
	"github.com/alexhtruong/canned/internal/service"
	"github.com/alexhtruong/canned/pkg/response"
)

// SubscriptionHandler 订阅模块 HTTP 处理器
type SubscriptionHandler struct {
	courseSvc service.CourseService
}

// NewSubscriptionHandler 创建 SubscriptionHandler
func NewSubscriptionHandler(courseSvc service.CourseService) *SubscriptionHandler {
	return &SubscriptionHandler{courseSvc: courseSvc}
}

// List 查询当前用户已订阅的课程
// GET /api/v1/subscriptions
func (h *SubscriptionHandler) List(c *gin.Context) {
	canvasUserID, ok := MustGetCanvasUserID(c)
	if !ok {
		return
	}

	courses, err := h.courseSvc.ListSubscriptions(c.Request.Context(), canvasUserID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, courses)
}

// Subscribe 订阅课程
// POST /api/v1/subscriptions/courses/:id
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	h.toggle(c, true)
}

// Unsubscribe 退订课程
// DELETE /api/v1/subscriptions/courses/:id
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	h.toggle(c, false)
}

// Set 显式设置订阅标记（幂等）
// PUT /api/v1/subscriptions/courses/:id
func (h *SubscriptionHandler) Set(c *gin.Context) {
	var req dto.SetSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数错误: "+err.Error())
		return
	}
	h.toggle(c, *req.IsSubscribed)
}

func (h *SubscriptionHandler) toggle(c *gin.Context, subscribed bool) {
	canvasUserID, ok := MustGetCanvasUserID(c)
	if !ok {
		return
	}

	courseID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || courseID <= 0 {
		response.BadRequest(c, 10001, "课程 ID 不合法")
		return
	}

	result, err := h.courseSvc.ToggleSubscription(c.Request.Context(), canvasUserID, courseID, subscribed)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.NotFound(c, 20001, "课程不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// History 查询当前用户的订阅操作日志（倒序）
// GET /api/v1/subscriptions/history
func (h *SubscriptionHandler) History(c *gin.Context) {
	canvasUserID, ok := MustGetCanvasUserID(c)
	if !ok {
		return
	}

	entries, err := h.courseSvc.SubscriptionHistory(c.Request.Context(), canvasUserID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, entries)
}
