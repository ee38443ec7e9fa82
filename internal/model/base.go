package model

import "time"

// BaseModel 通用时间戳字段（缓存类业务模型嵌入）
// 本地 Schema 没有软删除：同步语义是全量覆盖，不保留历史版本
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
