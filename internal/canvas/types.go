package canvas

import "time"

// ── 上游原始记录 ──
// 指针字段区分“缺失”与“零值”，校验只拒绝真正缺失的必填字段

// RawTerm 上游学期原始记录
type RawTerm struct {
	ID      *int64  `json:"id"`
	Name    *string `json:"name"`
	StartAt *string `json:"start_at"`
}

// RawCourse 上游课程原始记录
type RawCourse struct {
	ID         *int64   `json:"id"`
	Name       *string  `json:"name"`
	CourseCode *string  `json:"course_code"`
	Term       *RawTerm `json:"term"`
}

// RawSubmission 上游提交原始记录（内嵌于作业）
type RawSubmission struct {
	ID            *int64   `json:"id"`
	AssignmentID  *int64   `json:"assignment_id"`
	Score         *float64 `json:"score"`
	Grade         *string  `json:"grade"`
	SubmittedAt   *string  `json:"submitted_at"`
	WorkflowState *string  `json:"workflow_state"`
	Late          *bool    `json:"late"`
	Missing       *bool    `json:"missing"`
}

// RawAssignment 上游作业原始记录
type RawAssignment struct {
	ID              *int64         `json:"id"`
	CourseID        *int64         `json:"course_id"`
	Name            *string        `json:"name"`
	Description     *string        `json:"description"`
	HTMLURL         *string        `json:"html_url"`
	PointsPossible  *float64       `json:"points_possible"`
	DueAt           *string        `json:"due_at"`
	GradingType     *string        `json:"grading_type"`
	SubmissionTypes []string       `json:"submission_types"`
	Submission      *RawSubmission `json:"submission"`
}

// ── 规整后的领域对象 ──

// Term 课程学期
type Term struct {
	ID      int64
	Name    string
	StartAt time.Time
}

// Course 规整后的课程
type Course struct {
	ID         int64
	Name       string
	CourseCode string
	Term       *Term
	IsActive   bool
}

// Submission 规整后的提交记录
// ID 可空：从未提交时上游没有提交 id
type Submission struct {
	ID            *int64
	AssignmentID  int64
	Score         *float64
	Grade         *string
	SubmittedAt   *time.Time
	WorkflowState string
	Late          bool
	Missing       bool
}

// Assignment 规整后的作业（含提交记录）
type Assignment struct {
	ID             int64
	CourseID       int64
	CourseName     string
	Name           string
	Description    *string
	HTMLURL        string
	PointsPossible *float64
	DueAt          *time.Time
	GradingType    *string
	Graded         bool
	Submission     *Submission
}
