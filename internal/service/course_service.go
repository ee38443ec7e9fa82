package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alexhtruong/canned/internal/dto"
	"github.com/alexhtruong/canned/internal/model"
	"github.com/alexhtruong/canned/internal/repository"
)

// ── 课程模块业务错误 ──

var ErrCourseNotFound = errors.New("课程未在本地入库")

// CourseService 课程业务接口
type CourseService interface {
	List(ctx context.Context, canvasUserID int64) ([]dto.CourseResponse, error)
	ToggleSubscription(ctx context.Context, canvasUserID, canvasCourseID int64, subscribed bool) (*dto.SubscriptionResponse, error)
	ListSubscriptions(ctx context.Context, canvasUserID int64) ([]dto.CourseResponse, error)
	SubscriptionHistory(ctx context.Context, canvasUserID int64) ([]dto.SubscriptionHistoryResponse, error)
}

type courseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

// List 返回用户全部本地课程（读路径只查本地存储，不触发上游请求）
func (s *courseService) List(ctx context.Context, canvasUserID int64) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListByUser(ctx, canvasUserID)
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Int64("canvas_user_id", canvasUserID), zap.Error(err))
		return nil, err
	}
	return s.toCourseResponses(courses), nil
}

// ────────────────────── ToggleSubscription ──────────────────────

// ToggleSubscription 设置订阅标记并追加一条审计日志
// 订阅标记是用户本地 overlay 字段，同步永不触碰
func (s *courseService) ToggleSubscription(ctx context.Context, canvasUserID, canvasCourseID int64, subscribed bool) (*dto.SubscriptionResponse, error) {
	course, err := s.repo.Course.GetByUserAndCourse(ctx, canvasUserID, canvasCourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("查询课程失败", zap.Int64("canvas_course_id", canvasCourseID), zap.Error(err))
		return nil, err
	}

	rows, err := s.repo.Course.UpdateSubscription(ctx, canvasUserID, canvasCourseID, subscribed)
	if err != nil {
		s.logger.Error("更新订阅标记失败", zap.Int64("canvas_course_id", canvasCourseID), zap.Error(err))
		return nil, err
	}
	if rows == 0 {
		return nil, ErrCourseNotFound
	}

	action := model.SubscriptionActionSubscribed
	message := "订阅成功"
	if !subscribed {
		action = model.SubscriptionActionUnsubscribed
		message = "退订成功"
	}

	entry := &model.SubscriptionHistory{
		CanvasUserID:   canvasUserID,
		CanvasCourseID: canvasCourseID,
		Action:         action,
	}
	if err := s.repo.SubscriptionHistory.Append(ctx, entry); err != nil {
		s.logger.Error("追加订阅审计日志失败", zap.Int64("canvas_course_id", canvasCourseID), zap.Error(err))
		return nil, err
	}

	return &dto.SubscriptionResponse{
		Message:        message,
		CanvasCourseID: canvasCourseID,
		CourseName:     course.CourseName,
		CourseCode:     course.CourseCode,
		IsSubscribed:   subscribed,
	}, nil
}

// ────────────────────── ListSubscriptions ──────────────────────

func (s *courseService) ListSubscriptions(ctx context.Context, canvasUserID int64) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.ListSubscribedByUser(ctx, canvasUserID)
	if err != nil {
		s.logger.Error("查询订阅列表失败", zap.Int64("canvas_user_id", canvasUserID), zap.Error(err))
		return nil, err
	}
	return s.toCourseResponses(courses), nil
}

// ────────────────────── SubscriptionHistory ──────────────────────

func (s *courseService) SubscriptionHistory(ctx context.Context, canvasUserID int64) ([]dto.SubscriptionHistoryResponse, error) {
	entries, err := s.repo.SubscriptionHistory.ListByUser(ctx, canvasUserID)
	if err != nil {
		s.logger.Error("查询订阅审计日志失败", zap.Int64("canvas_user_id", canvasUserID), zap.Error(err))
		return nil, err
	}

	resp := make([]dto.SubscriptionHistoryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.SubscriptionHistoryResponse{
			CanvasCourseID: e.CanvasCourseID,
			Action:         e.Action,
			CreatedAt:      e.CreatedAt,
		})
	}
	return resp, nil
}

// ────────────────────── 映射辅助 ──────────────────────

func (s *courseService) toCourseResponses(courses []model.UserCourse) []dto.CourseResponse {
	resp := make([]dto.CourseResponse, 0, len(courses))
	for _, c := range courses {
		item := dto.CourseResponse{
			CanvasCourseID: c.CanvasCourseID,
			CourseName:     c.CourseName,
			CourseCode:     c.CourseCode,
			IsActive:       c.IsActive,
			IsSubscribed:   c.IsSubscribed,
			UpdatedAt:      c.UpdatedAt,
		}
		if c.TermID != nil && c.TermName != nil && c.TermStartAt != nil {
			item.Term = &dto.TermResponse{
				ID:      *c.TermID,
				Name:    *c.TermName,
				StartAt: *c.TermStartAt,
			}
		}
		resp = append(resp, item)
	}
	return resp
}
