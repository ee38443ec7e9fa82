package model

import "time"

// UserSubmission 每用户每作业的提交记录，对应数据表 user_submissions
// canvas_submission_id 可空：从未提交时上游没有提交 id
// is_locally_complete / locally_completed_at 仅由“标记完成”操作写入，同步永不触碰
type UserSubmission struct {
	ID                 uint       `gorm:"primaryKey"                                          json:"id"`
	CanvasUserID       int64      `gorm:"not null;uniqueIndex:uq_user_submission,priority:1"  json:"canvas_user_id"`
	CanvasSubmissionID *int64     `gorm:""                                                    json:"canvas_submission_id,omitempty"`
	CanvasAssignmentID int64      `gorm:"not null;uniqueIndex:uq_user_submission,priority:2"  json:"canvas_assignment_id"`
	WorkflowState      string     `gorm:"type:varchar(64);not null;default:'unsubmitted'"     json:"workflow_state"` // unsubmitted | submitted | graded ...
	Score              *float64   `gorm:""                                                    json:"score,omitempty"`
	Grade              *string    `gorm:"type:varchar(64)"                                    json:"grade,omitempty"`
	SubmittedAt        *time.Time `gorm:""                                                    json:"submitted_at,omitempty"`
	Late               bool       `gorm:"not null;default:false"                              json:"late"`
	Missing            bool       `gorm:"not null;default:false"                              json:"missing"`
	IsLocallyComplete  bool       `gorm:"not null;default:false"                              json:"is_locally_complete"`
	LocallyCompletedAt *time.Time `gorm:""                                                    json:"locally_completed_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (UserSubmission) TableName() string { return "user_submissions" }
