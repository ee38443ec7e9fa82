package model

import "time"

// UserCourse 每用户选课记录，对应数据表 user_courses
// 上游字段由同步全量覆盖；is_subscribed 为用户本地 overlay 字段，同步永不写入
type UserCourse struct {
	ID             uint       `gorm:"primaryKey"                                       json:"id"`
	CanvasUserID   int64      `gorm:"not null;uniqueIndex:uq_user_course,priority:1"   json:"canvas_user_id"`
	CanvasCourseID int64      `gorm:"not null;uniqueIndex:uq_user_course,priority:2"   json:"canvas_course_id"`
	CourseName     string     `gorm:"type:varchar(512);not null"                       json:"course_name"`
	CourseCode     string     `gorm:"type:varchar(255);not null;default:'UNKNOWN'"     json:"course_code"`
	TermID         *int64     `gorm:""                                                 json:"term_id,omitempty"`
	TermName       *string    `gorm:"type:varchar(255)"                                json:"term_name,omitempty"`
	TermStartAt    *time.Time `gorm:""                                                 json:"term_start_at,omitempty"`
	IsActive       bool       `gorm:"not null;default:false"                           json:"is_active"`
	IsSubscribed   bool       `gorm:"not null;default:false"                           json:"is_subscribed"`
	BaseModel
}

// TableName 指定表名
func (UserCourse) TableName() string { return "user_courses" }
