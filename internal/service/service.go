package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/alexhtruong/canned/internal/canvas"
	"github.com/alexhtruong/canned/internal/repository"
)

// CanvasClient 上游 Canvas 客户端的最小接口
// 由 internal/canvas.Client 实现，测试中可替换为假客户端
type CanvasClient interface {
	FetchCourses(ctx context.Context) ([]canvas.RawCourse, error)
	FetchAssignments(ctx context.Context, courseID int64) ([]canvas.RawAssignment, error)
}

// Service 所有 Service 的聚合入口
type Service struct {
	Sync       SyncService
	Course     CourseService
	Assignment AssignmentService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	repo *repository.Repository,
	client CanvasClient,
	logger *zap.Logger,
) *Service {
	return &Service{
		Sync:       NewSyncService(repo, client, logger),
		Course:     NewCourseService(repo, logger),
		Assignment: NewAssignmentService(repo, logger),
		Export:     NewExportService(repo, logger),
	}
}
