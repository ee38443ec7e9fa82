package dto

import "time"

// ── 订阅模块 DTO ──

// SetSubscriptionRequest 订阅标记设置请求（PUT）
type SetSubscriptionRequest struct {
	IsSubscribed *bool `json:"is_subscribed" binding:"required"`
}

// SubscriptionResponse 订阅操作响应
type SubscriptionResponse struct {
	Message        string `json:"message"`
	CanvasCourseID int64  `json:"canvas_course_id"`
	CourseName     string `json:"course_name"`
	CourseCode     string `json:"course_code"`
	IsSubscribed   bool   `json:"is_subscribed"`
}

// SubscriptionHistoryResponse 订阅审计日志条目
type SubscriptionHistoryResponse struct {
	CanvasCourseID int64     `json:"canvas_course_id"`
	Action         string    `json:"action"`
	CreatedAt      time.Time `json:"created_at"`
}
