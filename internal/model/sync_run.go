package model

import "time"

// 同步运行状态
const (
	SyncRunStatusRunning       = "running"
	SyncRunStatusSuccess       = "success"
	SyncRunStatusUpstreamError = "upstream_error"
	SyncRunStatusFailed        = "failed"
)

// SyncRun 同步运行记录，对应数据表 sync_runs
// 每次触发 Canvas 同步写一行，供前端作业历史页查询
type SyncRun struct {
	ID                uint       `gorm:"primaryKey"                         json:"id"`
	CanvasUserID      int64      `gorm:"not null;index"                     json:"canvas_user_id"`
	Status            string     `gorm:"type:varchar(32);not null"          json:"status"`
	CoursesSynced     int        `gorm:"not null;default:0"                 json:"courses_synced"`
	CoursesTotal      int        `gorm:"not null;default:0"                 json:"courses_total"`
	AssignmentsSynced int        `gorm:"not null;default:0"                 json:"assignments_synced"`
	AssignmentsTotal  int        `gorm:"not null;default:0"                 json:"assignments_total"`
	ErrorMessage      *string    `gorm:"type:text"                          json:"error_message,omitempty"`
	StartedAt         time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"started_at"`
	FinishedAt        *time.Time `gorm:""                                   json:"finished_at,omitempty"`
}

// TableName 指定表名
func (SyncRun) TableName() string { return "sync_runs" }
