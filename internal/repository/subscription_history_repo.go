package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alexhtruong/canned/internal/model"
)

// SubscriptionHistoryRepository 订阅审计日志数据访问接口
// 仅追加，无更新与删除
type SubscriptionHistoryRepository interface {
	Append(ctx context.Context, entry *model.SubscriptionHistory) error
	ListByUser(ctx context.Context, canvasUserID int64) ([]model.SubscriptionHistory, error)
}

// subscriptionHistoryRepo SubscriptionHistoryRepository 的 GORM 实现
type subscriptionHistoryRepo struct {
	db *gorm.DB
}

// NewSubscriptionHistoryRepo 创建 SubscriptionHistoryRepository 实例
func NewSubscriptionHistoryRepo(db *gorm.DB) SubscriptionHistoryRepository {
	return &subscriptionHistoryRepo{db: db}
}

func (r *subscriptionHistoryRepo) Append(ctx context.Context, entry *model.SubscriptionHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *subscriptionHistoryRepo) ListByUser(ctx context.Context, canvasUserID int64) ([]model.SubscriptionHistory, error) {
	var entries []model.SubscriptionHistory
	err := r.db.WithContext(ctx).
		Where("canvas_user_id = ?", canvasUserID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
