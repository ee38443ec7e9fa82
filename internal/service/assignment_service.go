package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alexhtruong/canned/internal/dto"
	"github.com/alexhtruong/canned/internal/model"
	"github.com/alexhtruong/canned/internal/repository"
)

// ── 作业模块业务错误 ──

var ErrAssignmentNotFound = errors.New("作业未在本地入库")

// AssignmentService 作业业务接口
type AssignmentService interface {
	List(ctx context.Context, canvasUserID int64) ([]dto.AssignmentResponse, error)
	SetCompletion(ctx context.Context, canvasUserID, canvasAssignmentID int64, complete bool) (*dto.AssignmentResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger, now: time.Now}
}

// ────────────────────── List ──────────────────────

// List 返回用户全部作业并左连提交记录（只查本地存储）
func (s *assignmentService) List(ctx context.Context, canvasUserID int64) ([]dto.AssignmentResponse, error) {
	assignments, err := s.repo.Assignment.ListByUser(ctx, canvasUserID)
	if err != nil {
		s.logger.Error("查询作业列表失败", zap.Int64("canvas_user_id", canvasUserID), zap.Error(err))
		return nil, err
	}

	resp := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		resp = append(resp, toAssignmentResponse(&a))
	}
	return resp, nil
}

// ────────────────────── SetCompletion ──────────────────────

// SetCompletion 写入本地完成标记
// 标记完成时记录当前时间，取消时清空；该操作永不访问上游
func (s *assignmentService) SetCompletion(ctx context.Context, canvasUserID, canvasAssignmentID int64, complete bool) (*dto.AssignmentResponse, error) {
	if _, err := s.repo.Assignment.GetByUserAndAssignment(ctx, canvasUserID, canvasAssignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询作业失败", zap.Int64("canvas_assignment_id", canvasAssignmentID), zap.Error(err))
		return nil, err
	}

	var completedAt *time.Time
	if complete {
		t := s.now()
		completedAt = &t
	}

	if err := s.repo.Submission.SetLocalCompletion(ctx, canvasUserID, canvasAssignmentID, complete, completedAt); err != nil {
		s.logger.Error("写入本地完成标记失败",
			zap.Int64("canvas_assignment_id", canvasAssignmentID),
			zap.Error(err),
		)
		return nil, err
	}

	// 重新加载以返回刷新后的作业+提交视图
	updated, err := s.repo.Assignment.GetByUserAndAssignment(ctx, canvasUserID, canvasAssignmentID)
	if err != nil {
		return nil, err
	}

	resp := toAssignmentResponse(updated)
	return &resp, nil
}

// ────────────────────── 映射辅助 ──────────────────────

func toAssignmentResponse(a *model.UserAssignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		CanvasAssignmentID: a.CanvasAssignmentID,
		CanvasCourseID:     a.CanvasCourseID,
		CourseName:         a.CourseName,
		Name:               a.AssignmentName,
		Description:        a.Description,
		HTMLURL:            a.HTMLURL,
		PointsPossible:     a.PointsPossible,
		DueAt:              a.DueAt,
		GradingType:        a.GradingType,
		Graded:             a.Graded,
	}
	if a.Submission != nil {
		resp.Submission = &dto.SubmissionResponse{
			CanvasSubmissionID: a.Submission.CanvasSubmissionID,
			WorkflowState:      a.Submission.WorkflowState,
			Score:              a.Submission.Score,
			Grade:              a.Submission.Grade,
			SubmittedAt:        a.Submission.SubmittedAt,
			Late:               a.Submission.Late,
			Missing:            a.Submission.Missing,
			IsLocallyComplete:  a.Submission.IsLocallyComplete,
			LocallyCompletedAt: a.Submission.LocallyCompletedAt,
		}
	}
	return resp
}
