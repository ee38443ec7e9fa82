package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alexhtruong/canned/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	Ensure(ctx context.Context, user *model.User) error
	GetByCanvasID(ctx context.Context, canvasID int64) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

// Ensure 幂等预置用户：canvas_id 已存在时不做任何修改
func (r *userRepo) Ensure(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "canvas_id"}},
			DoNothing: true,
		}).
		Create(user).Error
}

func (r *userRepo) GetByCanvasID(ctx context.Context, canvasID int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("canvas_id = ?", canvasID).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Order("canvas_id").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
