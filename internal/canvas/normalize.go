package canvas

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/alexhtruong/canned/pkg/htmltext"
)

// 课程活跃窗口：学期开始后 (10 + 3) 周内视为在读
const (
	quarterLengthWeeks = 10
	bufferWeeks        = 3
	activeWindowDays   = (quarterLengthWeeks + bufferWeeks) * 7
)

// ErrMissingField 必填字段缺失，单条记录被拒绝
var ErrMissingField = errors.New("必填字段缺失")

// Reject 批量规整中被拒绝的记录（用于日志与测试枚举）
type Reject struct {
	Index  int
	Reason error
}

// parseUpstreamTime 解析上游时间戳
// 缺失时区信息的时间按 UTC 处理
func parseUpstreamTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
}

// normalizeTerm 规整学期数据
// 必填字段（id/name/start_at）缺失或时间不可解析时返回 nil：课程按无学期入库，不拒绝
func normalizeTerm(raw *RawTerm) *Term {
	if raw == nil || raw.ID == nil || raw.Name == nil || raw.StartAt == nil {
		return nil
	}
	startAt, err := parseUpstreamTime(*raw.StartAt)
	if err != nil {
		return nil
	}
	return &Term{ID: *raw.ID, Name: *raw.Name, StartAt: startAt}
}

// isActiveAt 判断课程在 now 时刻是否在活跃窗口内
// 判定条件：now - start_at 不超过窗口天数，尚未开始的学期同样视为活跃
// 无学期或无开始时间一律视为不活跃
func isActiveAt(term *Term, now time.Time) bool {
	if term == nil {
		return false
	}
	return now.Sub(term.StartAt) <= activeWindowDays*24*time.Hour
}

// NormalizeCourse 将上游课程原始记录规整为领域对象
// 必填字段：id、name；course_code 缺失时回落为 UNKNOWN
func NormalizeCourse(raw RawCourse, now time.Time) (*Course, error) {
	if raw.ID == nil {
		return nil, fmt.Errorf("%w: course.id", ErrMissingField)
	}
	if raw.Name == nil {
		return nil, fmt.Errorf("%w: course.name", ErrMissingField)
	}

	code := "UNKNOWN"
	if raw.CourseCode != nil && *raw.CourseCode != "" {
		code = *raw.CourseCode
	}

	term := normalizeTerm(raw.Term)

	return &Course{
		ID:         *raw.ID,
		Name:       *raw.Name,
		CourseCode: code,
		Term:       term,
		IsActive:   isActiveAt(term, now),
	}, nil
}

// NormalizeCourses 批量规整课程
// 单条记录失败只计入 rejects，不中断整批；保留原始相对顺序
func NormalizeCourses(raws []RawCourse, now time.Time) ([]Course, []Reject) {
	courses := make([]Course, 0, len(raws))
	var rejects []Reject

	for i, raw := range raws {
		course, err := NormalizeCourse(raw, now)
		if err != nil {
			rejects = append(rejects, Reject{Index: i, Reason: err})
			continue
		}
		courses = append(courses, *course)
	}

	return courses, rejects
}

// NormalizeSubmission 规整提交记录
// 必填字段：assignment_id、workflow_state；上游提交 id 可空（从未提交）
func NormalizeSubmission(raw RawSubmission) (*Submission, error) {
	if raw.AssignmentID == nil {
		return nil, fmt.Errorf("%w: submission.assignment_id", ErrMissingField)
	}
	if raw.WorkflowState == nil {
		return nil, fmt.Errorf("%w: submission.workflow_state", ErrMissingField)
	}

	sub := &Submission{
		ID:            raw.ID,
		AssignmentID:  *raw.AssignmentID,
		Score:         raw.Score,
		Grade:         raw.Grade,
		WorkflowState: *raw.WorkflowState,
	}
	if raw.SubmittedAt != nil {
		if t, err := parseUpstreamTime(*raw.SubmittedAt); err == nil {
			sub.SubmittedAt = &t
		}
	}
	if raw.Late != nil {
		sub.Late = *raw.Late
	}
	if raw.Missing != nil {
		sub.Missing = *raw.Missing
	}

	return sub, nil
}

// NormalizeAssignment 规整作业记录
// 必填字段：id、course_id、name、html_url、submission、submission_types
// graded 派生：submission_types 含 not_graded 时为 false
// description 经 HTML 剥离后入库，结果为空存 NULL
func NormalizeAssignment(raw RawAssignment, courseName string) (*Assignment, error) {
	if raw.ID == nil {
		return nil, fmt.Errorf("%w: assignment.id", ErrMissingField)
	}
	if raw.CourseID == nil {
		return nil, fmt.Errorf("%w: assignment.course_id", ErrMissingField)
	}
	if raw.Name == nil {
		return nil, fmt.Errorf("%w: assignment.name", ErrMissingField)
	}
	if raw.HTMLURL == nil {
		return nil, fmt.Errorf("%w: assignment.html_url", ErrMissingField)
	}
	if raw.Submission == nil {
		return nil, fmt.Errorf("%w: assignment.submission", ErrMissingField)
	}
	if raw.SubmissionTypes == nil {
		return nil, fmt.Errorf("%w: assignment.submission_types", ErrMissingField)
	}

	submission, err := NormalizeSubmission(*raw.Submission)
	if err != nil {
		return nil, err
	}

	assignment := &Assignment{
		ID:             *raw.ID,
		CourseID:       *raw.CourseID,
		CourseName:     courseName,
		Name:           *raw.Name,
		HTMLURL:        *raw.HTMLURL,
		PointsPossible: raw.PointsPossible,
		GradingType:    raw.GradingType,
		Graded:         !slices.Contains(raw.SubmissionTypes, "not_graded"),
		Submission:     submission,
	}

	if raw.Description != nil {
		if text := htmltext.Strip(*raw.Description); text != "" {
			assignment.Description = &text
		}
	}
	if raw.DueAt != nil {
		if t, err := parseUpstreamTime(*raw.DueAt); err == nil {
			assignment.DueAt = &t
		}
	}

	return assignment, nil
}

// NormalizeAssignments 批量规整作业
// 与课程批处理同语义：单条失败不中断整批
func NormalizeAssignments(raws []RawAssignment, courseName string) ([]Assignment, []Reject) {
	assignments := make([]Assignment, 0, len(raws))
	var rejects []Reject

	for i, raw := range raws {
		assignment, err := NormalizeAssignment(raw, courseName)
		if err != nil {
			rejects = append(rejects, Reject{Index: i, Reason: err})
			continue
		}
		assignments = append(assignments, *assignment)
	}

	return assignments, rejects
}
