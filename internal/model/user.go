package model

import "time"

// User 用户表，对应数据表 users
// 启动时根据配置预置，固定两用户，创建后不可变
type User struct {
	ID          uint      `gorm:"primaryKey"                         json:"id"`
	CanvasID    int64     `gorm:"not null;uniqueIndex"               json:"canvas_id"`
	Name        string    `gorm:"type:varchar(255);not null"         json:"name"`
	PhoneNumber *string   `gorm:"type:varchar(32)"                   json:"phone_number,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }
