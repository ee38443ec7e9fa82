package model

import "time"

// UserAssignment 每用户作业缓存，对应数据表 user_assignments
// (canvas_user_id, canvas_course_id) 复合外键保证作业只能挂在已有选课记录上
type UserAssignment struct {
	ID                 uint       `gorm:"primaryKey"                                          json:"id"`
	CanvasUserID       int64      `gorm:"not null;uniqueIndex:uq_user_assignment,priority:1"  json:"canvas_user_id"`
	CanvasAssignmentID int64      `gorm:"not null;uniqueIndex:uq_user_assignment,priority:2"  json:"canvas_assignment_id"`
	CanvasCourseID     int64      `gorm:"not null"                                            json:"canvas_course_id"`
	AssignmentName     string     `gorm:"type:varchar(512);not null"                          json:"assignment_name"`
	CourseName         string     `gorm:"type:varchar(512);not null"                          json:"course_name"` // 写入时冗余，便于列表直出
	Description        *string    `gorm:"type:text"                                           json:"description,omitempty"`
	HTMLURL            string     `gorm:"type:varchar(1024);not null"                         json:"html_url"`
	PointsPossible     *float64   `gorm:""                                                    json:"points_possible,omitempty"`
	DueAt              *time.Time `gorm:""                                                    json:"due_at,omitempty"`
	GradingType        *string    `gorm:"type:varchar(64)"                                    json:"grading_type,omitempty"` // points | pass_fail | percent | not_graded ...
	Graded             bool       `gorm:"not null;default:true"                               json:"graded"`
	BaseModel

	// 关联：同一 (用户, 作业) 的提交记录
	Submission *UserSubmission `gorm:"foreignKey:CanvasUserID,CanvasAssignmentID;references:CanvasUserID,CanvasAssignmentID" json:"submission,omitempty"`
}

// TableName 指定表名
func (UserAssignment) TableName() string { return "user_assignments" }
