package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alexhtruong/canned/internal/dto"
	"github.com/alexhtruong/canned/internal/service"
	"github.com/alexhtruong/canned/pkg/response"
)

// AssignmentHandler 作业模块 HTTP 处理器
type AssignmentHandler struct {
	assignmentSvc service.AssignmentService
}

// NewAssignmentHandler 创建 AssignmentHandler
func NewAssignmentHandler(assignmentSvc service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentSvc: assignmentSvc}
}

// List 查询当前用户的全部作业（按截止时间升序，无截止时间的在最后）
// GET /api/v1/assignments
func (h *AssignmentHandler) List(c *gin.Context) {
	canvasUserID, ok := MustGetCanvasUserID(c)
	if !ok {
		return
	}

	assignments, err := h.assignmentSvc.List(c.Request.Context(), canvasUserID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, assignments)
}

// UpdateSubmission 设置作业的本地完成标记
// PATCH /api/v1/assignments/:id/submission
func (h *AssignmentHandler) UpdateSubmission(c *gin.Context) {
	canvasUserID, ok := MustGetCanvasUserID(c)
	if !ok {
		return
	}

	assignmentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || assignmentID <= 0 {
		response.BadRequest(c, 10001, "作业 ID 不合法")
		return
	}

	var req dto.UpdateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数错误: "+err.Error())
		return
	}

	result, err := h.assignmentSvc.SetCompletion(c.Request.Context(), canvasUserID, assignmentID, *req.IsLocallyComplete)
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			response.NotFound(c, 20002, "作业不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}
