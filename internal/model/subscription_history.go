package model

import "time"

// 订阅动作取值
const (
	SubscriptionActionSubscribed   = "subscribed"
	SubscriptionActionUnsubscribed = "unsubscribed"
)

// SubscriptionHistory 订阅变更审计日志，对应数据表 subscription_history
// 仅追加，永不更新或删除
type SubscriptionHistory struct {
	ID             uint      `gorm:"primaryKey"                         json:"id"`
	CanvasUserID   int64     `gorm:"not null;index:idx_subscription_history_user,priority:1" json:"canvas_user_id"`
	CanvasCourseID int64     `gorm:"not null"                           json:"canvas_course_id"`
	Action         string    `gorm:"type:varchar(16);not null"          json:"action"` // subscribed | unsubscribed
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_subscription_history_user,priority:2" json:"created_at"`
}

// TableName 指定表名
func (SubscriptionHistory) TableName() string { return "subscription_history" }
