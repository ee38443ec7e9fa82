package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/alexhtruong/canned/internal/service"
	"github.com/alexhtruong/canned/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportAssignments 导出作业清单为 Excel
// GET /api/v1/export/assignments
func (h *ExportHandler) ExportAssignments(c *gin.Context) {
	canvasUserID, ok := MustGetCanvasUserID(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.AssignmentsXLSX(c.Request.Context(), canvasUserID)
	if err != nil {
		response.InternalError(c)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// ExportCalendar 导出截止日期日历 (.ics)
// GET /api/v1/export/calendar
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	canvasUserID, ok := MustGetCanvasUserID(c)
	if !ok {
		return
	}

	content, filename, err := h.exportSvc.CalendarICS(c.Request.Context(), canvasUserID)
	if err != nil {
		response.InternalError(c)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}
