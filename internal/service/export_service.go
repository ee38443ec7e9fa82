package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/alexhtruong/canned/internal/model"
	"github.com/alexhtruong/canned/internal/repository"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成导出文件失败")

// ExportService 导出业务接口
//
// 设计说明：
//   - 作业表导出为 Excel (.xlsx)，供前端数据管理页下载
//   - 日历导出为 iCalendar (.ics)，仅含未本地完成且有截止时间的作业
//   - 均以内容 + 建议文件名返回，由 Handler 层设置响应头
type ExportService interface {
	AssignmentsXLSX(ctx context.Context, canvasUserID int64) (*bytes.Buffer, string, error)
	CalendarICS(ctx context.Context, canvasUserID int64) (string, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// AssignmentsXLSX 导出作业表为 Excel
// ═══════════════════════════════════════════════════════════

var assignmentSheetHeaders = []string{
	"课程", "作业", "截止时间", "满分", "计分方式", "提交状态", "分数", "本地完成",
}

func (s *exportService) AssignmentsXLSX(ctx context.Context, canvasUserID int64) (*bytes.Buffer, string, error) {
	assignments, err := s.repo.Assignment.ListByUser(ctx, canvasUserID)
	if err != nil {
		s.logger.Error("查询作业列表失败", zap.Int64("canvas_user_id", canvasUserID), zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Assignments"
	f.SetSheetName("Sheet1", sheet)

	for col, header := range assignmentSheetHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
		}
	}

	for row, a := range assignments {
		values := []interface{}{
			a.CourseName,
			a.AssignmentName,
			formatOptionalTime(a.DueAt),
			formatOptionalFloat(a.PointsPossible),
			formatOptionalString(a.GradingType),
			submissionStateText(a.Submission),
			submissionScoreText(a.Submission),
			localCompletionText(a.Submission),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
	}

	filename := fmt.Sprintf("assignments_%s.xlsx", s.now().Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// CalendarICS 导出作业截止时间为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) CalendarICS(ctx context.Context, canvasUserID int64) (string, string, error) {
	assignments, err := s.repo.Assignment.ListByUser(ctx, canvasUserID)
	if err != nil {
		s.logger.Error("查询作业列表失败", zap.Int64("canvas_user_id", canvasUserID), zap.Error(err))
		return "", "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//canned//assignment-deadlines//EN")

	created := s.now()
	for _, a := range assignments {
		// 无截止时间或已本地完成的作业不进日历
		if a.DueAt == nil {
			continue
		}
		if a.Submission != nil && a.Submission.IsLocallyComplete {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("assignment-%d@canned", a.CanvasAssignmentID))
		event.SetCreatedTime(created)
		event.SetDtStampTime(created)
		event.SetStartAt(*a.DueAt)
		event.SetEndAt(*a.DueAt)
		event.SetSummary(fmt.Sprintf("[%s] %s", a.CourseName, a.AssignmentName))
		event.SetURL(a.HTMLURL)
		if a.Description != nil {
			event.SetDescription(*a.Description)
		}
	}

	filename := fmt.Sprintf("assignments_%s.ics", s.now().Format("20060102"))
	return cal.Serialize(), filename, nil
}

// ────────────────────── 单元格格式化辅助 ──────────────────────

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return fmt.Sprintf("%g", *f)
}

func formatOptionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func submissionStateText(sub *model.UserSubmission) string {
	if sub == nil {
		return "unsubmitted"
	}
	return sub.WorkflowState
}

func submissionScoreText(sub *model.UserSubmission) string {
	if sub == nil || sub.Score == nil {
		return ""
	}
	return fmt.Sprintf("%g", *sub.Score)
}

func localCompletionText(sub *model.UserSubmission) string {
	if sub != nil && sub.IsLocallyComplete {
		return "是"
	}
	return "否"
}
