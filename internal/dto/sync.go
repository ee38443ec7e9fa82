package dto

import "time"

// ── 同步模块 DTO ──

// SyncStats 单类实体的同步统计
type SyncStats struct {
	Synced int `json:"synced"`
	Total  int `json:"total"`
}

// SyncResponse 同步结果响应
type SyncResponse struct {
	Status      string    `json:"status"` // success | upstream_error | failed
	Courses     SyncStats `json:"courses"`
	Assignments SyncStats `json:"assignments"`
	Message     string    `json:"message"`
}

// SyncRunResponse 同步运行历史条目
type SyncRunResponse struct {
	ID                uint       `json:"id"`
	Status            string     `json:"status"`
	CoursesSynced     int        `json:"courses_synced"`
	CoursesTotal      int        `json:"courses_total"`
	AssignmentsSynced int        `json:"assignments_synced"`
	AssignmentsTotal  int        `json:"assignments_total"`
	ErrorMessage      *string    `json:"error_message,omitempty"`
	StartedAt         time.Time  `json:"started_at"`
	FinishedAt        *time.Time `json:"finished_at,omitempty"`
}
