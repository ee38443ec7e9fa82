package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/alexhtruong/canned/internal/model"
)

// SubmissionRepository 提交记录数据访问接口
type SubmissionRepository interface {
	BulkUpsert(ctx context.Context, submissions []model.UserSubmission) error
	SetLocalCompletion(ctx context.Context, canvasUserID, canvasAssignmentID int64, complete bool, completedAt *time.Time) error
}

// submissionRepo SubmissionRepository 的 GORM 实现
type submissionRepo struct {
	db *gorm.DB
}

// NewSubmissionRepo 创建 SubmissionRepository 实例
func NewSubmissionRepo(db *gorm.DB) SubmissionRepository {
	return &submissionRepo{db: db}
}

// BulkUpsert 按 (canvas_user_id, canvas_assignment_id) 批量插入或覆盖
// 覆盖列仅限上游字段：is_locally_complete / locally_completed_at / created_at 永不被同步写入
func (r *submissionRepo) BulkUpsert(ctx context.Context, submissions []model.UserSubmission) error {
	if len(submissions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "canvas_user_id"}, {Name: "canvas_assignment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"canvas_submission_id", "workflow_state",
				"score", "grade", "submitted_at",
				"late", "missing", "updated_at",
			}),
		}).
		Create(&submissions).Error
}

// SetLocalCompletion 写入本地完成 overlay 字段
// 该作业尚无提交记录时按默认值（unsubmitted、无上游 id）创建一行
func (r *submissionRepo) SetLocalCompletion(ctx context.Context, canvasUserID, canvasAssignmentID int64, complete bool, completedAt *time.Time) error {
	submission := model.UserSubmission{
		CanvasUserID:       canvasUserID,
		CanvasAssignmentID: canvasAssignmentID,
		IsLocallyComplete:  complete,
		LocallyCompletedAt: completedAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "canvas_user_id"}, {Name: "canvas_assignment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"is_locally_complete", "locally_completed_at", "updated_at",
			}),
		}).
		Create(&submission).Error
}
