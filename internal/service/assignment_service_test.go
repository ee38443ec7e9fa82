package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/alexhtruong/canned/internal/model"
)

func seedAssignment(mocks *testRepos, canvasUserID, canvasAssignmentID, canvasCourseID int64, name string, dueAt *time.Time) {
	mocks.assignments.assignments[assignmentKey{canvasUserID, canvasAssignmentID}] = &model.UserAssignment{
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

func newAssignmentTestService() (AssignmentService, *testRepos) {
	repo, mocks := newTestRepo()
	return NewAssignmentService(repo, zap.NewNop()), mocks
}

func TestAssignmentList_DueDateOrderNullsLast(t *testing.T) {
	svc, mocks := newAssignmentTestService()

	early := time.Now().Add(24 * time.Hour)
	late := time.Now().Add(72 * time.Hour)
	seedAssignment(mocks, testUserID, 3, 101, "无截止", nil)
	seedAssignment(mocks, testUserID, 1, 101, "晚交", &late)
	seedAssignment(mocks, testUserID, 2, 101, "早交", &early)

	assignments, err := svc.List(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(assignments) != 3 {
		t.Fatalf("期望 3 条，实际 %d", len(assignments))
	}
	if assignments[0].Name != "早交" || assignments[1].Name != "晚交" || assignments[2].Name != "无截止" {
		t.Errorf("排序错误（应按截止时间升序、无截止在最后）: %s, %s, %s",
			assignments[0].Name, assignments[1].Name, assignments[2].Name)
	}
}

func TestAssignmentList_AttachesSubmission(t *testing.T) {
	svc, mocks := newAssignmentTestService()
	seedAssignment(mocks, testUserID, 1, 101, "hw1", nil)
	mocks.submissions.submissions[assignmentKey{testUserID, 1}] = &model.UserSubmission{
		CanvasUserID:       testUserID,
		CanvasAssignmentID: 1,
		WorkflowState:      "graded",
		Score:              fPtr(88),
	}

	assignments, err := svc.List(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if assignments[0].Submission == nil {
		t.Fatal("提交记录应被拼接")
	}
	if assignments[0].Submission.WorkflowState != "graded" || *assignments[0].Submission.Score != 88 {
		t.Errorf("提交字段错误: %+v", assignments[0].Submission)
	}
}

func TestSetCompletion_MarkAndUnmark(t *testing.T) {
	svc, mocks := newAssignmentTestService()
	seedAssignment(mocks, testUserID, 1, 101, "hw1", nil)
	mocks.submissions.submissions[assignmentKey{testUserID, 1}] = &model.UserSubmission{
		CanvasUserID:       testUserID,
		CanvasAssignmentID: 1,
		WorkflowState:      "unsubmitted",
	}

	ctx := context.Background()

	resp, err := svc.SetCompletion(ctx, testUserID, 1, true)
	if err != nil {
		t.Fatalf("标记完成失败: %v", err)
	}
	if resp.Submission == nil || !resp.Submission.IsLocallyComplete {
		t.Errorf("响应应反映已完成状态: %+v", resp.Submission)
	}
	if resp.Submission.LocallyCompletedAt == nil {
		t.Errorf("完成时间应已写入")
	}

	resp, err = svc.SetCompletion(ctx, testUserID, 1, false)
	if err != nil {
		t.Fatalf("取消标记失败: %v", err)
	}
	if resp.Submission.IsLocallyComplete {
		t.Errorf("完成标记应已清除")
	}
	if resp.Submission.LocallyCompletedAt != nil {
		t.Errorf("取消后完成时间应清空")
	}
}

func TestSetCompletion_CreatesMissingSubmissionRow(t *testing.T) {
	svc, mocks := newAssignmentTestService()
	// 只有作业，没有提交行
	seedAssignment(mocks, testUserID, 1, 101, "hw1", nil)

	resp, err := svc.SetCompletion(context.Background(), testUserID, 1, true)
	if err != nil {
		t.Fatalf("无提交行时标记完成失败: %v", err)
	}
	if resp.Submission == nil || !resp.Submission.IsLocallyComplete {
		t.Errorf("应自动创建提交行并写入标记: %+v", resp.Submission)
	}
	if resp.Submission.WorkflowState != "unsubmitted" {
		t.Errorf("新建提交行状态应为 unsubmitted，实际 %s", resp.Submission.WorkflowState)
	}
}

func TestSetCompletion_AssignmentNotFound(t *testing.T) {
	svc, _ := newAssignmentTestService()

	_, err := svc.SetCompletion(context.Background(), testUserID, 404, true)
	if !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("期望 ErrAssignmentNotFound，实际: %v", err)
	}
}
