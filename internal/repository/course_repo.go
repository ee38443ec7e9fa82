package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alexhtruong/canned/internal/model"
)

// CourseRepository 选课记录数据访问接口
type CourseRepository interface {
	BulkUpsert(ctx context.Context, courses []model.UserCourse) error
	ListByUser(ctx context.Context, canvasUserID int64) ([]model.UserCourse, error)
	ListActiveByUser(ctx context.Context, canvasUserID int64) ([]model.UserCourse, error)
	ListSubscribedByUser(ctx context.Context, canvasUserID int64) ([]model.UserCourse, error)
	GetByUserAndCourse(ctx context.Context, canvasUserID, canvasCourseID int64) (*model.UserCourse, error)
	UpdateSubscription(ctx context.Context, canvasUserID, canvasCourseID int64, subscribed bool) (int64, error)
}

// courseRepo CourseRepository 的 GORM 实现
type courseRepo struct {
	db *gorm.DB
}

// NewCourseRepo 创建 CourseRepository 实例
func NewCourseRepo(db *gorm.DB) CourseRepository {
	return &courseRepo{db: db}
}

// BulkUpsert 按 (canvas_user_id, canvas_course_id) 批量插入或覆盖
// 覆盖列仅限上游字段：is_subscribed 与 created_at 永不被同步写入
func (r *courseRepo) BulkUpsert(ctx context.Context, courses []model.UserCourse) error {
	if len(courses) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "canvas_user_id"}, {Name: "canvas_course_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"course_name", "course_code",
				"term_id", "term_name", "term_start_at",
				"is_active", "updated_at",
			}),
		}).
		Create(&courses).Error
}

func (r *courseRepo) ListByUser(ctx context.Context, canvasUserID int64) ([]model.UserCourse, error) {
	var courses []model.UserCourse
	err := r.db.WithContext(ctx).
		Where("canvas_user_id = ?", canvasUserID).
		Order("course_name").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) ListActiveByUser(ctx context.Context, canvasUserID int64) ([]model.UserCourse, error) {
	var courses []model.UserCourse
	err := r.db.WithContext(ctx).
		Where("canvas_user_id = ? AND is_active = TRUE", canvasUserID).
		Order("course_name").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) ListSubscribedByUser(ctx context.Context, canvasUserID int64) ([]model.UserCourse, error) {
	var courses []model.UserCourse
	err := r.db.WithContext(ctx).
		Where("canvas_user_id = ? AND is_subscribed = TRUE", canvasUserID).
		Order("course_name").
		Find(&courses).Error
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) GetByUserAndCourse(ctx context.Context, canvasUserID, canvasCourseID int64) (*model.UserCourse, error) {
	var course model.UserCourse
	err := r.db.WithContext(ctx).
		Where("canvas_user_id = ? AND canvas_course_id = ?", canvasUserID, canvasCourseID).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// UpdateSubscription 设置订阅标记，返回受影响行数（0 表示课程不存在）
func (r *courseRepo) UpdateSubscription(ctx context.Context, canvasUserID, canvasCourseID int64, subscribed bool) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.UserCourse{}).
		Where("canvas_user_id = ? AND canvas_course_id = ?", canvasUserID, canvasCourseID).
		Update("is_subscribed", subscribed)
	return result.RowsAffected, result.Error
}
