package dto

import "time"

// ── 课程模块 DTO ──

// TermResponse 学期信息
type TermResponse struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	StartAt time.Time `json:"start_at"`
}

// CourseResponse 课程信息响应
type CourseResponse struct {
	CanvasCourseID int64         `json:"canvas_course_id"`
	CourseName     string        `json:"course_name"`
	CourseCode     string        `json:"course_code"`
	Term           *TermResponse `json:"term,omitempty"`
	IsActive       bool          `json:"is_active"`
	IsSubscribed   bool          `json:"is_subscribed"`
	UpdatedAt      time.Time     `json:"updated_at"`
}
