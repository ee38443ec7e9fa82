//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alexhtruong/canned/internal/model"
	"github.com/alexhtruong/canned/internal/repository"
	"github.com/alexhtruong/canned/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=canned password=canned_password dbname=canned_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 用内嵌 SQL 迁移建表，保证测试库与生产库约束一致（含复合外键）
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取底层连接失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "执行迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// setupTestUser 创建测试用户并返回其 canvas_user_id 与清理函数
func setupTestUser(t *testing.T) (int64, func()) {
	t.Helper()
	ctx := context.Background()

	canvasUserID := time.Now().UnixNano() % 1_000_000_000

	user := &model.User{
		CanvasID: canvasUserID,
		Name:     "测试用户",
	}
	if err := testDB.WithContext(ctx).Create(user).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	cleanup := func() {
		testDB.Where("canvas_user_id = ?", canvasUserID).Delete(&model.UserSubmission{})
		testDB.Where("canvas_user_id = ?", canvasUserID).Delete(&model.UserAssignment{})
		testDB.Where("canvas_user_id = ?", canvasUserID).Delete(&model.SubscriptionHistory{})
		testDB.Where("canvas_user_id = ?", canvasUserID).Delete(&model.SyncRun{})
		testDB.Where("canvas_user_id = ?", canvasUserID).Delete(&model.UserCourse{})
		testDB.Where("canvas_id = ?", canvasUserID).Delete(&model.User{})
	}
	return canvasUserID, cleanup
}

func testCourse(canvasUserID, canvasCourseID int64, name string, active bool) model.UserCourse {
	return model.UserCourse{
		CanvasUserID:   canvasUserID,
		CanvasCourseID: canvasCourseID,
		CourseName:     name,
		CourseCode:     "CODE " + name,
		IsActive:       active,
	}
}

func testAssignment(canvasUserID, canvasAssignmentID, canvasCourseID int64, name string, dueAt *time.Time) model.UserAssignment {
	return model.UserAssignment{
		CanvasUserID:       canvasUserID,
		CanvasAssignmentID: canvasAssignmentID,
		CanvasCourseID:     canvasCourseID,
		AssignmentName:     name,
		CourseName:         "CS 161",
		HTMLURL:            "https://canvas.example.edu/assignments",
		Graded:             true,
		DueAt:              dueAt,
	}
}

// ═══════════════════════════════════════════════════════════
// CourseRepository
// ═══════════════════════════════════════════════════════════

func TestCourseRepo_BulkUpsert_PreservesOverlay(t *testing.T) {
	userID, cleanup := setupTestUser(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewCourseRepo(testDB)

	if err := repo.BulkUpsert(ctx, []model.UserCourse{testCourse(userID, 101, "CS 161", true)}); err != nil {
		t.Fatalf("首次入库失败: %v", err)
	}

	// 用户订阅课程
	rows, err := repo.UpdateSubscription(ctx, userID, 101, true)
	if err != nil || rows != 1 {
		t.Fatalf("订阅失败: rows=%d err=%v", rows, err)
	}

	// 上游改名后再次同步
	if err := repo.BulkUpsert(ctx, []model.UserCourse{testCourse(userID, 101, "CS 161 改名", false)}); err != nil {
		t.Fatalf("二次入库失败: %v", err)
	}

	course, err := repo.GetByUserAndCourse(ctx, userID, 101)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if course.CourseName != "CS 161 改名" {
		t.Errorf("上游字段应被覆盖，实际 %s", course.CourseName)
	}
	if course.IsActive {
		t.Errorf("is_active 应被覆盖为 false")
	}
	if !course.IsSubscribed {
		t.Errorf("订阅标记不应被同步覆盖")
	}
}

func TestCourseRepo_BulkUpsert_Idempotent(t *testing.T) {
	userID, cleanup := setupTestUser(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewCourseRepo(testDB)

	for i := 0; i < 3; i++ {
		if err := repo.BulkUpsert(ctx, []model.UserCourse{testCourse(userID, 101, "CS 161", true)}); err != nil {
			t.Fatalf("第 %d 次入库失败: %v", i+1, err)
		}
	}

	courses, err := repo.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(courses) != 1 {
		t.Errorf("重复入库不应产生重复行，实际 %d 条", len(courses))
	}
}

func TestCourseRepo_ListActiveByUser(t *testing.T) {
	userID, cleanup := setupTestUser(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewCourseRepo(testDB)

	if err := repo.BulkUpsert(ctx, []model.UserCourse{
		testCourse(userID, 101, "活跃课程", true),
		testCourse(userID, 102, "过期课程", false),
	}); err != nil {
		t.Fatalf("入库失败: %v", err)
	}

	active, err := repo.ListActiveByUser(ctx, userID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(active) != 1 || active[0].CanvasCourseID != 101 {
		t.Errorf("只应返回活跃课程: %+v", active)
	}
}

// ═══════════════════════════════════════════════════════════
// AssignmentRepository / SubmissionRepository
// ═══════════════════════════════════════════════════════════

func TestAssignmentRepo_ListByUser_DueDateOrder(t *testing.T) {
	userID, cleanup := setupTestUser(t)
	defer cleanup()

	ctx := context.Background()
	courseRepo := repository.NewCourseRepo(testDB)
	assignmentRepo := repository.NewAssignmentRepo(testDB)

	if err := courseRepo.BulkUpsert(ctx, []model.UserCourse{testCourse(userID, 101, "CS 161", true)}); err != nil {
		t.Fatalf("课程入库失败: %v", err)
	}

	early := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	late := time.Now().Add(72 * time.Hour).Truncate(time.Second)
	if err := assignmentRepo.BulkUpsert(ctx, []model.UserAssignment{
		testAssignment(userID, 3, 101, "无截止", nil),
		testAssignment(userID, 1, 101, "晚交", &late),
		testAssignment(userID, 2, 101, "早交", &early),
	}); err != nil {
		t.Fatalf("作业入库失败: %v", err)
	}

	assignments, err := assignmentRepo.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(assignments) != 3 {
		t.Fatalf("期望 3 条，实际 %d", len(assignments))
	}
	if assignments[0].AssignmentName != "早交" ||
		assignments[1].AssignmentName != "晚交" ||
		assignments[2].AssignmentName != "无截止" {
		t.Errorf("排序错误（应按截止时间升序、无截止在最后）: %s, %s, %s",
			assignments[0].AssignmentName, assignments[1].AssignmentName, assignments[2].AssignmentName)
	}
}

func TestAssignmentRepo_BulkUpsert_RequiresEnrollment(t *testing.T) {
	userID, cleanup := setupTestUser(t)
	defer cleanup()

	ctx := context.Background()
	assignmentRepo := repository.NewAssignmentRepo(testDB)

	// 未建立选课记录，复合外键应拒绝写入
	err := assignmentRepo.BulkUpsert(ctx, []model.UserAssignment{
		testAssignment(userID, 1, 999, "越界作业", nil),
	})
	if err == nil {
		t.Fatal("未选课的课程作业应被外键拒绝，但写入成功")
	}

	assignments, listErr := assignmentRepo.ListByUser(ctx, userID)
	if listErr != nil {
		t.Fatalf("查询失败: %v", listErr)
	}
	if len(assignments) != 0 {
		t.Errorf("期望 0 条作业，实际 %d", len(assignments))
	}
}

func TestSubmissionRepo_BulkUpsert_PreservesLocalCompletion(t *testing.T) {
	userID, cleanup := setupTestUser(t)
	defer cleanup()

	ctx := context.Background()
	courseRepo := repository.NewCourseRepo(testDB)
	assignmentRepo := repository.NewAssignmentRepo(testDB)
	submissionRepo := repository.NewSubmissionRepo(testDB)

	if err := courseRepo.BulkUpsert(ctx, []model.UserCourse{testCourse(userID, 101, "CS 161", true)}); err != nil {
		t.Fatalf("课程入库失败: %v", err)
	}
	if err := assignmentRepo.BulkUpsert(ctx, []model.UserAssignment{
		testAssignment(userID, 11, 101, "hw1", nil),
	}); err != nil {
		t.Fatalf("作业入库失败: %v", err)
	}
	if err := submissionRepo.BulkUpsert(ctx, []model.UserSubmission{{
		CanvasUserID:       userID,
		CanvasAssignmentID: 11,
		WorkflowState:      "unsubmitted",
	}}); err != nil {
		t.Fatalf("提交入库失败: %v", err)
	}

	// 本地标记完成
	completedAt := time.Now().Truncate(time.Second)
	if err := submissionRepo.SetLocalCompletion(ctx, userID, 11, true, &completedAt); err != nil {
		t.Fatalf("标记完成失败: %v", err)
	}

	// 上游提交状态变化后再次同步
	subID := int64(501)
	score := 95.0
	if err := submissionRepo.BulkUpsert(ctx, []model.UserSubmission{{
		CanvasUserID:       userID,
		CanvasSubmissionID: &subID,
		CanvasAssignmentID: 11,
		WorkflowState:      "graded",
		Score:              &score,
	}}); err != nil {
		t.Fatalf("二次提交入库失败: %v", err)
	}

	updated, err := assignmentRepo.GetByUserAndAssignment(ctx, userID, 11)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if updated.Submission == nil {
		t.Fatal("提交记录应被预加载")
	}
	if updated.Submission.WorkflowState != "graded" {
		t.Errorf("上游字段应被覆盖，实际 %s", updated.Submission.WorkflowState)
	}
	if !updated.Submission.IsLocallyComplete {
		t.Errorf("本地完成标记不应被同步覆盖")
	}
}

func TestSubmissionRepo_SetLocalCompletion_CreatesRow(t *testing.T) {
	userID, cleanup := setupTestUser(t)
	defer cleanup()

	ctx := context.Background()
	courseRepo := repository.NewCourseRepo(testDB)
	assignmentRepo := repository.NewAssignmentRepo(testDB)
	submissionRepo := repository.NewSubmissionRepo(testDB)

	if err := courseRepo.BulkUpsert(ctx, []model.UserCourse{testCourse(userID, 101, "CS 161", true)}); err != nil {
		t.Fatalf("课程入库失败: %v", err)
	}
	if err := assignmentRepo.BulkUpsert(ctx, []model.UserAssignment{
		testAssignment(userID, 11, 101, "hw1", nil),
	}); err != nil {
		t.Fatalf("作业入库失败: %v", err)
	}

	// 没有提交行时直接标记完成
	completedAt := time.Now().Truncate(time.Second)
	if err := submissionRepo.SetLocalCompletion(ctx, userID, 11, true, &completedAt); err != nil {
		t.Fatalf("标记完成失败: %v", err)
	}

	updated, err := assignmentRepo.GetByUserAndAssignment(ctx, userID, 11)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if updated.Submission == nil || !updated.Submission.IsLocallyComplete {
		t.Errorf("应自动创建提交行并写入标记: %+v", updated.Submission)
	}
}

// ═══════════════════════════════════════════════════════════
// SubscriptionHistoryRepository / SyncRunRepository
// ═══════════════════════════════════════════════════════════

func TestSubscriptionHistoryRepo_AppendAndList(t *testing.T) {
	userID, cleanup := setupTestUser(t)
	defer cleanup()

	ctx := context.Background()
	courseRepo := repository.NewCourseRepo(testDB)
	historyRepo := repository.NewSubscriptionHistoryRepo(testDB)

	if err := courseRepo.BulkUpsert(ctx, []model.UserCourse{testCourse(userID, 101, "CS 161", true)}); err != nil {
		t.Fatalf("课程入库失败: %v", err)
	}

	for _, action := range []string{
		model.SubscriptionActionSubscribed,
		model.SubscriptionActionUnsubscribed,
	} {
		if err := historyRepo.Append(ctx, &model.SubscriptionHistory{
			CanvasUserID:   userID,
			CanvasCourseID: 101,
			Action:         action,
		}); err != nil {
			t.Fatalf("追加日志失败: %v", err)
		}
	}

	entries, err := historyRepo.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("期望 2 条，实际 %d", len(entries))
	}
	if entries[0].Action != model.SubscriptionActionUnsubscribed {
		t.Errorf("应按时间倒序，首条期望 unsubscribed，实际 %s", entries[0].Action)
	}
}

func TestSyncRunRepo_CreateUpdateList(t *testing.T) {
	userID, cleanup := setupTestUser(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewSyncRunRepo(testDB)

	run := &model.SyncRun{
		CanvasUserID: userID,
		Status:       model.SyncRunStatusRunning,
		StartedAt:    time.Now().Truncate(time.Second),
	}
	if err := repo.Create(ctx, run); err != nil {
		t.Fatalf("创建运行记录失败: %v", err)
	}

	finishedAt := time.Now().Truncate(time.Second)
	run.Status = model.SyncRunStatusSuccess
	run.CoursesSynced = 3
	run.CoursesTotal = 3
	run.FinishedAt = &finishedAt
	if err := repo.Update(ctx, run); err != nil {
		t.Fatalf("更新运行记录失败: %v", err)
	}

	runs, err := repo.ListByUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("查询失败: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("期望 1 条，实际 %d", len(runs))
	}
	if runs[0].Status != model.SyncRunStatusSuccess || runs[0].CoursesSynced != 3 {
		t.Errorf("更新未生效: %+v", runs[0])
	}
}
