package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alexhtruong/canned/internal/model"
)

// AssignmentRepository 作业缓存数据访问接口
type AssignmentRepository interface {
	BulkUpsert(ctx context.Context, assignments []model.UserAssignment) error
	ListByUser(ctx context.Context, canvasUserID int64) ([]model.UserAssignment, error)
	GetByUserAndAssignment(ctx context.Context, canvasUserID, canvasAssignmentID int64) (*model.UserAssignment, error)
}

// assignmentRepo AssignmentRepository 的 GORM 实现
type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

// BulkUpsert 按 (canvas_user_id, canvas_assignment_id) 批量插入或覆盖
// 复合外键约束由数据库保证：未入库选课记录的课程会整批写入失败
func (r *assignmentRepo) BulkUpsert(ctx context.Context, assignments []model.UserAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Omit("Submission").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "canvas_user_id"}, {Name: "canvas_assignment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"canvas_course_id", "assignment_name", "course_name",
				"description", "html_url", "points_possible",
				"due_at", "grading_type", "graded", "updated_at",
			}),
		}).
		Create(&assignments).Error
}

// ListByUser 返回用户全部作业并左连提交记录
// 排序：截止时间升序（无截止时间在后），其次按作业 id
func (r *assignmentRepo) ListByUser(ctx context.Context, canvasUserID int64) ([]model.UserAssignment, error) {
	var assignments []model.UserAssignment
	err := r.db.WithContext(ctx).
		Preload("Submission", "canvas_user_id = ?", canvasUserID).
		Where("canvas_user_id = ?", canvasUserID).
		Order("due_at ASC NULLS LAST").
		Order("canvas_assignment_id").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepo) GetByUserAndAssignment(ctx context.Context, canvasUserID, canvasAssignmentID int64) (*model.UserAssignment, error) {
	var assignment model.UserAssignment
	err := r.db.WithContext(ctx).
		Preload("Submission", "canvas_user_id = ?", canvasUserID).
		Where("canvas_user_id = ? AND canvas_assignment_id = ?", canvasUserID, canvasAssignmentID).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}
