package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User                UserRepository
	Course              CourseRepository
	Assignment          AssignmentRepository
	Submission          SubmissionRepository
	SubscriptionHistory SubscriptionHistoryRepository
	SyncRun             SyncRunRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:                NewUserRepo(db),
		Course:              NewCourseRepo(db),
		Assignment:          NewAssignmentRepo(db),
		Submission:          NewSubmissionRepo(db),
		SubscriptionHistory: NewSubscriptionHistoryRepo(db),
		SyncRun:             NewSyncRunRepo(db),
	}
}
