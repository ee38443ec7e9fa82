package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/alexhtruong/canned/internal/model"
)

// SyncRunRepository 同步运行记录数据访问接口
type SyncRunRepository interface {
	Create(ctx context.Context, run *model.SyncRun) error
	Update(ctx context.Context, run *model.SyncRun) error
	ListByUser(ctx context.Context, canvasUserID int64, limit int) ([]model.SyncRun, error)
}

// syncRunRepo SyncRunRepository 的 GORM 实现
type syncRunRepo struct {
	db *gorm.DB
}

// NewSyncRunRepo 创建 SyncRunRepository 实例
func NewSyncRunRepo(db *gorm.DB) SyncRunRepository {
	return &syncRunRepo{db: db}
}

func (r *syncRunRepo) Create(ctx context.Context, run *model.SyncRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *syncRunRepo) Update(ctx context.Context, run *model.SyncRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *syncRunRepo) ListByUser(ctx context.Context, canvasUserID int64, limit int) ([]model.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []model.SyncRun
	err := r.db.WithContext(ctx).
		Where("canvas_user_id = ?", canvasUserID).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
