package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/alexhtruong/canned/internal/service"
	"github.com/alexhtruong/canned/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// List 查询当前用户的全部课程（按课程名排序）
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	canvasUserID, ok := MustGetCanvasUserID(c)
	if !ok {
		return
	}

	courses, err := h.courseSvc.List(c.Request.Context(), canvasUserID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, courses)
}
