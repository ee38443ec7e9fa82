package handler

import "github.com/alexhtruong/canned/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Canvas       *CanvasHandler
	Course       *CourseHandler
	Assignment   *AssignmentHandler
	Subscription *SubscriptionHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Canvas:       NewCanvasHandler(svc.Sync),
		Course:       NewCourseHandler(svc.Course),
		Assignment:   NewAssignmentHandler(svc.Assignment),
		Subscription: NewSubscriptionHandler(svc.Course),
		Export:       NewExportHandler(svc.Export),
	}
}
