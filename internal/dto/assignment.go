package dto

import "time"

// ── 作业模块 DTO ──

// SubmissionResponse 提交记录（含本地完成 overlay 字段）
type SubmissionResponse struct {
	CanvasSubmissionID *int64     `json:"canvas_submission_id,omitempty"`
	WorkflowState      string     `json:"workflow_state"`
	Score              *float64   `json:"score,omitempty"`
	Grade              *string    `json:"grade,omitempty"`
	SubmittedAt        *time.Time `json:"submitted_at,omitempty"`
	Late               bool       `json:"late"`
	Missing            bool       `json:"missing"`
	IsLocallyComplete  bool       `json:"is_locally_complete"`
	LocallyCompletedAt *time.Time `json:"locally_completed_at,omitempty"`
}

// AssignmentResponse 作业信息响应（提交记录左连，可能为空）
type AssignmentResponse struct {
	CanvasAssignmentID int64               `json:"canvas_assignment_id"`
	CanvasCourseID     int64               `json:"canvas_course_id"`
	CourseName         string              `json:"course_name"`
	Name               string              `json:"name"`
	Description        *string             `json:"description,omitempty"`
	HTMLURL            string              `json:"html_url"`
	PointsPossible     *float64            `json:"points_possible,omitempty"`
	DueAt              *time.Time          `json:"due_at,omitempty"`
	GradingType        *string             `json:"grading_type,omitempty"`
	Graded             bool                `json:"graded"`
	Submission         *SubmissionResponse `json:"submission,omitempty"`
}

// UpdateSubmissionRequest 本地完成标记请求
// 指针区分“未传字段”与显式 false
type UpdateSubmissionRequest struct {
	IsLocallyComplete *bool `json:"is_locally_complete" binding:"required"`
}
