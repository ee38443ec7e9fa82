package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alexhtruong/canned/internal/canvas"
	"github.com/alexhtruong/canned/internal/dto"
	"github.com/alexhtruong/canned/internal/model"
	"github.com/alexhtruong/canned/internal/repository"
)

// ErrSyncFailed 数据已从上游取回后发生的校验或入库失败
// 与 canvas.ErrUpstreamUnavailable 区分，调用方据此选择面向用户的状态
var ErrSyncFailed = errors.New("同步失败")

// SyncService 同步业务接口
type SyncService interface {
	Sync(ctx context.Context, canvasUserID int64) (*dto.SyncResponse, error)
	SyncCourses(ctx context.Context, canvasUserID int64) (*dto.SyncStats, error)
	SyncAssignments(ctx context.Context, canvasUserID int64) (*dto.SyncStats, error)
	ListRuns(ctx context.Context, canvasUserID int64, limit int) ([]dto.SyncRunResponse, error)
}

type syncService struct {
	repo   *repository.Repository
	client CanvasClient
	logger *zap.Logger
	now    func() time.Time

	// 同一用户的并发同步串行化，保证统计与 sync_runs 记录自洽
	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
}

// NewSyncService 创建 SyncService 实例
func NewSyncService(repo *repository.Repository, client CanvasClient, logger *zap.Logger) SyncService {
	return &syncService{
		repo:      repo,
		client:    client,
		logger:    logger,
		now:       time.Now,
		userLocks: make(map[int64]*sync.Mutex),
	}
}

// lockUser 获取按用户分键的互斥锁
func (s *syncService) lockUser(canvasUserID int64) func() {
	s.mu.Lock()
	lock, ok := s.userLocks[canvasUserID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[canvasUserID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// ────────────────────── Sync ──────────────────────

// Sync 先同步课程再同步作业，并记录一条 sync_runs
func (s *syncService) Sync(ctx context.Context, canvasUserID int64) (*dto.SyncResponse, error) {
	unlock := s.lockUser(canvasUserID)
	defer unlock()

	run := &model.SyncRun{
		CanvasUserID: canvasUserID,
		Status:       model.SyncRunStatusRunning,
		StartedAt:    s.now(),
	}
	if err := s.repo.SyncRun.Create(ctx, run); err != nil {
		// 运行记录写入失败不阻断同步本身
		s.logger.Warn("创建同步运行记录失败", zap.Error(err))
		run = nil
	}

	courseStats, err := s.SyncCourses(ctx, canvasUserID)
	if err != nil {
		s.finishRun(ctx, run, err, nil, nil)
		return nil, err
	}

	assignmentStats, err := s.SyncAssignments(ctx, canvasUserID)
	if err != nil {
		s.finishRun(ctx, run, err, courseStats, nil)
		return nil, err
	}

	s.finishRun(ctx, run, nil, courseStats, assignmentStats)

	message := "课程与作业同步完成"
	if courseStats.Total == 0 {
		message = "上游未返回任何课程"
	}

	return &dto.SyncResponse{
		Status:      model.SyncRunStatusSuccess,
		Courses:     *courseStats,
		Assignments: *assignmentStats,
		Message:     message,
	}, nil
}

// finishRun 落盘同步运行结果；run 为 nil 时跳过
func (s *syncService) finishRun(ctx context.Context, run *model.SyncRun, syncErr error, courses, assignments *dto.SyncStats) {
	if run == nil {
		return
	}

	switch {
	case syncErr == nil:
		run.Status = model.SyncRunStatusSuccess
	case errors.Is(syncErr, canvas.ErrUpstreamUnavailable):
		run.Status = model.SyncRunStatusUpstreamError
	default:
		run.Status = model.SyncRunStatusFailed
	}
	if syncErr != nil {
		msg := syncErr.Error()
		run.ErrorMessage = &msg
	}
	if courses != nil {
		run.CoursesSynced = courses.Synced
		run.CoursesTotal = courses.Total
	}
	if assignments != nil {
		run.AssignmentsSynced = assignments.Synced
		run.AssignmentsTotal = assignments.Total
	}
	finishedAt := s.now()
	run.FinishedAt = &finishedAt

	if err := s.repo.SyncRun.Update(ctx, run); err != nil {
		s.logger.Warn("更新同步运行记录失败", zap.Uint("run_id", run.ID), zap.Error(err))
	}
}

// ────────────────────── SyncCourses ──────────────────────

// SyncCourses 拉取全部上游课程并整批覆盖本地缓存
// 上游无课程时返回零值统计（不视为错误）；is_subscribed 永不被写入
func (s *syncService) SyncCourses(ctx context.Context, canvasUserID int64) (*dto.SyncStats, error) {
	raws, err := s.client.FetchCourses(ctx)
	if err != nil {
		return nil, err
	}

	if len(raws) == 0 {
		s.logger.Info("上游未返回任何课程", zap.Int64("canvas_user_id", canvasUserID))
		return &dto.SyncStats{}, nil
	}

	courses, rejects := canvas.NormalizeCourses(raws, s.now())
	for _, rej := range rejects {
		s.logger.Warn("课程记录校验失败，已跳过",
			zap.Int64("canvas_user_id", canvasUserID),
			zap.Int("index", rej.Index),
			zap.Error(rej.Reason),
		)
	}

	records := make([]model.UserCourse, 0, len(courses))
	for _, course := range courses {
		record := model.UserCourse{
			CanvasUserID:   canvasUserID,
			CanvasCourseID: course.ID,
			CourseName:     course.Name,
			CourseCode:     course.CourseCode,
			IsActive:       course.IsActive,
		}
		if course.Term != nil {
			record.TermID = &course.Term.ID
			record.TermName = &course.Term.Name
			record.TermStartAt = &course.Term.StartAt
		}
		records = append(records, record)
	}

	if err := s.repo.Course.BulkUpsert(ctx, records); err != nil {
		s.logger.Error("课程批量入库失败", zap.Int64("canvas_user_id", canvasUserID), zap.Error(err))
		return nil, fmt.Errorf("%w: 课程入库: %v", ErrSyncFailed, err)
	}

	s.logger.Info("课程同步完成",
		zap.Int64("canvas_user_id", canvasUserID),
		zap.Int("synced", len(records)),
		zap.Int("total", len(raws)),
	)

	return &dto.SyncStats{Synced: len(records), Total: len(raws)}, nil
}

// ────────────────────── SyncAssignments ──────────────────────

// SyncAssignments 按本地存储的活跃课程集合逐课程同步作业与提交记录
// 单课程拉取失败记日志后跳过，不中断其余课程
func (s *syncService) SyncAssignments(ctx context.Context, canvasUserID int64) (*dto.SyncStats, error) {
	activeCourses, err := s.repo.Course.ListActiveByUser(ctx, canvasUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: 读取活跃课程: %v", ErrSyncFailed, err)
	}

	stats := &dto.SyncStats{}

	for _, course := range activeCourses {
		raws, err := s.client.FetchAssignments(ctx, course.CanvasCourseID)
		if err != nil {
			s.logger.Warn("课程作业拉取失败，已跳过该课程",
				zap.Int64("canvas_user_id", canvasUserID),
				zap.Int64("canvas_course_id", course.CanvasCourseID),
				zap.Error(err),
			)
			continue
		}
		stats.Total += len(raws)

		assignments, rejects := canvas.NormalizeAssignments(raws, course.CourseName)
		for _, rej := range rejects {
			s.logger.Warn("作业记录校验失败，已跳过",
				zap.Int64("canvas_course_id", course.CanvasCourseID),
				zap.Int("index", rej.Index),
				zap.Error(rej.Reason),
			)
		}
		if len(assignments) == 0 {
			continue
		}

		assignmentRecords := make([]model.UserAssignment, 0, len(assignments))
		submissionRecords := make([]model.UserSubmission, 0, len(assignments))
		for _, a := range assignments {
			assignmentRecords = append(assignmentRecords, model.UserAssignment{
				CanvasUserID:       canvasUserID,
				CanvasAssignmentID: a.ID,
				CanvasCourseID:     a.CourseID,
				AssignmentName:     a.Name,
				CourseName:         a.CourseName,
				Description:        a.Description,
				HTMLURL:            a.HTMLURL,
				PointsPossible:     a.PointsPossible,
				DueAt:              a.DueAt,
				GradingType:        a.GradingType,
				Graded:             a.Graded,
			})
			if a.Submission != nil {
				submissionRecords = append(submissionRecords, model.UserSubmission{
					CanvasUserID:       canvasUserID,
					CanvasSubmissionID: a.Submission.ID,
					CanvasAssignmentID: a.ID,
					WorkflowState:      a.Submission.WorkflowState,
					Score:              a.Submission.Score,
					Grade:              a.Submission.Grade,
					SubmittedAt:        a.Submission.SubmittedAt,
					Late:               a.Submission.Late,
					Missing:            a.Submission.Missing,
				})
			}
		}

		// 先作业后提交，满足复合外键依赖
		if err := s.repo.Assignment.BulkUpsert(ctx, assignmentRecords); err != nil {
			s.logger.Error("作业批量入库失败",
				zap.Int64("canvas_course_id", course.CanvasCourseID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: 作业入库: %v", ErrSyncFailed, err)
		}
		if err := s.repo.Submission.BulkUpsert(ctx, submissionRecords); err != nil {
			s.logger.Error("提交记录批量入库失败",
				zap.Int64("canvas_course_id", course.CanvasCourseID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: 提交记录入库: %v", ErrSyncFailed, err)
		}

		stats.Synced += len(assignmentRecords)
	}

	s.logger.Info("作业同步完成",
		zap.Int64("canvas_user_id", canvasUserID),
		zap.Int("courses", len(activeCourses)),
		zap.Int("synced", stats.Synced),
		zap.Int("total", stats.Total),
	)

	return stats, nil
}

// ────────────────────── ListRuns ──────────────────────

func (s *syncService) ListRuns(ctx context.Context, canvasUserID int64, limit int) ([]dto.SyncRunResponse, error) {
	runs, err := s.repo.SyncRun.ListByUser(ctx, canvasUserID, limit)
	if err != nil {
		s.logger.Error("查询同步运行记录失败", zap.Int64("canvas_user_id", canvasUserID), zap.Error(err))
		return nil, err
	}

	resp := make([]dto.SyncRunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, dto.SyncRunResponse{
			ID:                run.ID,
			Status:            run.Status,
			CoursesSynced:     run.CoursesSynced,
			CoursesTotal:      run.CoursesTotal,
			AssignmentsSynced: run.AssignmentsSynced,
			AssignmentsTotal:  run.AssignmentsTotal,
			ErrorMessage:      run.ErrorMessage,
			StartedAt:         run.StartedAt,
			FinishedAt:        run.FinishedAt,
		})
	}
	return resp, nil
}
