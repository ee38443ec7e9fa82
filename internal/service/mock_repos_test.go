package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/alexhtruong/canned/internal/canvas"
	"github.com/alexhtruong/canned/internal/model"
	"github.com/alexhtruong/canned/internal/repository"
)

type courseKey struct {
	userID   int64
	courseID int64
}

type assignmentKey struct {
	userID       int64
	assignmentID int64
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[int64]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*model.User)}
}

func (m *mockUserRepo) Ensure(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.CanvasID]; !ok {
		m.users[user.CanvasID] = user
	}
	return nil
}

func (m *mockUserRepo) GetByCanvasID(_ context.Context, canvasID int64) (*model.User, error) {
	if u, ok := m.users[canvasID]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[courseKey]*model.UserCourse
	failing bool
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[courseKey]*model.UserCourse)}
}

func (m *mockCourseRepo) BulkUpsert(_ context.Context, courses []model.UserCourse) error {
	if m.failing {
		return gorm.ErrInvalidDB
	}
	for i := range courses {
		c := courses[i]
		key := courseKey{c.CanvasUserID, c.CanvasCourseID}
		if existing, ok := m.courses[key]; ok {
			// 覆盖上游字段，overlay 字段不动
			existing.CourseName = c.CourseName
			existing.CourseCode = c.CourseCode
			existing.TermID = c.TermID
			existing.TermName = c.TermName
			existing.TermStartAt = c.TermStartAt
			existing.IsActive = c.IsActive
			existing.UpdatedAt = time.Now()
			continue
		}
		m.courses[key] = &c
	}
	return nil
}

func (m *mockCourseRepo) ListByUser(_ context.Context, canvasUserID int64) ([]model.UserCourse, error) {
	var result []model.UserCourse
	for _, c := range m.courses {
		if c.CanvasUserID == canvasUserID {
			result = append(result, *c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourseName < result[j].CourseName })
	return result, nil
}

func (m *mockCourseRepo) ListActiveByUser(ctx context.Context, canvasUserID int64) ([]model.UserCourse, error) {
	all, _ := m.ListByUser(ctx, canvasUserID)
	var result []model.UserCourse
	for _, c := range all {
		if c.IsActive {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) ListSubscribedByUser(ctx context.Context, canvasUserID int64) ([]model.UserCourse, error) {
	all, _ := m.ListByUser(ctx, canvasUserID)
	var result []model.UserCourse
	for _, c := range all {
		if c.IsSubscribed {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCourseRepo) GetByUserAndCourse(_ context.Context, canvasUserID, canvasCourseID int64) (*model.UserCourse, error) {
	if c, ok := m.courses[courseKey{canvasUserID, canvasCourseID}]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) UpdateSubscription(_ context.Context, canvasUserID, canvasCourseID int64, subscribed bool) (int64, error) {
	c, ok := m.courses[courseKey{canvasUserID, canvasCourseID}]
	if !ok {
		return 0, nil
	}
	c.IsSubscribed = subscribed
	return 1, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[assignmentKey]*model.UserAssignment
	subs        *mockSubmissionRepo // 查询时拼接提交记录，模拟 Preload
	failing     bool
}

func newMockAssignmentRepo(subs *mockSubmissionRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{
		assignments: make(map[assignmentKey]*model.UserAssignment),
		subs:        subs,
	}
}

func (m *mockAssignmentRepo) BulkUpsert(_ context.Context, assignments []model.UserAssignment) error {
	if m.failing {
		return gorm.ErrInvalidDB
	}
	for i := range assignments {
		a := assignments[i]
		a.Submission = nil
		m.assignments[assignmentKey{a.CanvasUserID, a.CanvasAssignmentID}] = &a
	}
	return nil
}

func (m *mockAssignmentRepo) attach(a model.UserAssignment) model.UserAssignment {
	if sub, ok := m.subs.submissions[assignmentKey{a.CanvasUserID, a.CanvasAssignmentID}]; ok {
		copied := *sub
		a.Submission = &copied
	}
	return a
}

func (m *mockAssignmentRepo) ListByUser(_ context.Context, canvasUserID int64) ([]model.UserAssignment, error) {
	var result []model.UserAssignment
	for _, a := range m.assignments {
		if a.CanvasUserID == canvasUserID {
			result = append(result, m.attach(*a))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		di, dj := result[i].DueAt, result[j].DueAt
		switch {
		case di == nil && dj == nil:
			return result[i].CanvasAssignmentID < result[j].CanvasAssignmentID
		case di == nil:
			return false
		case dj == nil:
			return true
		case di.Equal(*dj):
			return result[i].CanvasAssignmentID < result[j].CanvasAssignmentID
		default:
			return di.Before(*dj)
		}
	})
	return result, nil
}

func (m *mockAssignmentRepo) GetByUserAndAssignment(_ context.Context, canvasUserID, canvasAssignmentID int64) (*model.UserAssignment, error) {
	if a, ok := m.assignments[assignmentKey{canvasUserID, canvasAssignmentID}]; ok {
		attached := m.attach(*a)
		return &attached, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// ── Mock SubmissionRepository ──

type mockSubmissionRepo struct {
	submissions map[assignmentKey]*model.UserSubmission
	failing     bool
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{submissions: make(map[assignmentKey]*model.UserSubmission)}
}

func (m *mockSubmissionRepo) BulkUpsert(_ context.Context, submissions []model.UserSubmission) error {
	if m.failing {
		return gorm.ErrInvalidDB
	}
	for i := range submissions {
		s := submissions[i]
		key := assignmentKey{s.CanvasUserID, s.CanvasAssignmentID}
		if existing, ok := m.submissions[key]; ok {
			// 覆盖上游字段，本地完成标记不动
			existing.CanvasSubmissionID = s.CanvasSubmissionID
			existing.WorkflowState = s.WorkflowState
			existing.Score = s.Score
			existing.Grade = s.Grade
			existing.SubmittedAt = s.SubmittedAt
			existing.Late = s.Late
			existing.Missing = s.Missing
			existing.UpdatedAt = time.Now()
			continue
		}
		m.submissions[key] = &s
	}
	return nil
}

func (m *mockSubmissionRepo) SetLocalCompletion(_ context.Context, canvasUserID, canvasAssignmentID int64, complete bool, completedAt *time.Time) error {
	key := assignmentKey{canvasUserID, canvasAssignmentID}
	sub, ok := m.submissions[key]
	if !ok {
		sub = &model.UserSubmission{
			CanvasUserID:       canvasUserID,
			CanvasAssignmentID: canvasAssignmentID,
			WorkflowState:      "unsubmitted",
		}
		m.submissions[key] = sub
	}
	sub.IsLocallyComplete = complete
	sub.LocallyCompletedAt = completedAt
	return nil
}

// ── Mock SubscriptionHistoryRepository ──

type mockSubscriptionHistoryRepo struct {
	entries []model.SubscriptionHistory
}

func newMockSubscriptionHistoryRepo() *mockSubscriptionHistoryRepo {
	return &mockSubscriptionHistoryRepo{}
}

func (m *mockSubscriptionHistoryRepo) Append(_ context.Context, entry *model.SubscriptionHistory) error {
	entry.ID = uint(len(m.entries) + 1)
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockSubscriptionHistoryRepo) ListByUser(_ context.Context, canvasUserID int64) ([]model.SubscriptionHistory, error) {
	var result []model.SubscriptionHistory
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].CanvasUserID == canvasUserID {
			result = append(result, m.entries[i])
		}
	}
	return result, nil
}

// ── Mock SyncRunRepository ──

type mockSyncRunRepo struct {
	runs []*model.SyncRun
}

func newMockSyncRunRepo() *mockSyncRunRepo {
	return &mockSyncRunRepo{}
}

func (m *mockSyncRunRepo) Create(_ context.Context, run *model.SyncRun) error {
	run.ID = uint(len(m.runs) + 1)
	m.runs = append(m.runs, run)
	return nil
}

func (m *mockSyncRunRepo) Update(_ context.Context, run *model.SyncRun) error {
	for i, r := range m.runs {
		if r.ID == run.ID {
			m.runs[i] = run
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *mockSyncRunRepo) ListByUser(_ context.Context, canvasUserID int64, limit int) ([]model.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var result []model.SyncRun
	for i := len(m.runs) - 1; i >= 0 && len(result) < limit; i-- {
		if m.runs[i].CanvasUserID == canvasUserID {
			result = append(result, *m.runs[i])
		}
	}
	return result, nil
}

// ── Fake CanvasClient ──

type fakeCanvasClient struct {
	courses           []canvas.RawCourse
	coursesErr        error
	assignments       map[int64][]canvas.RawAssignment
	assignmentErrs    map[int64]error
	fetchCoursesCalls int
}

func newFakeCanvasClient() *fakeCanvasClient {
	return &fakeCanvasClient{
		assignments:    make(map[int64][]canvas.RawAssignment),
		assignmentErrs: make(map[int64]error),
	}
}

func (f *fakeCanvasClient) FetchCourses(_ context.Context) ([]canvas.RawCourse, error) {
	f.fetchCoursesCalls++
	if f.coursesErr != nil {
		return nil, f.coursesErr
	}
	return f.courses, nil
}

func (f *fakeCanvasClient) FetchAssignments(_ context.Context, courseID int64) ([]canvas.RawAssignment, error) {
	if err, ok := f.assignmentErrs[courseID]; ok {
		return nil, err
	}
	return f.assignments[courseID], nil
}

// ── 测试装配 ──

type testRepos struct {
	users         *mockUserRepo
	courses       *mockCourseRepo
	assignments   *mockAssignmentRepo
	submissions   *mockSubmissionRepo
	subscriptions *mockSubscriptionHistoryRepo
	syncRuns      *mockSyncRunRepo
}

func newTestRepo() (*repository.Repository, *testRepos) {
	subs := newMockSubmissionRepo()
	mocks := &testRepos{
		users:         newMockUserRepo(),
		courses:       newMockCourseRepo(),
		assignments:   newMockAssignmentRepo(subs),
		submissions:   subs,
		subscriptions: newMockSubscriptionHistoryRepo(),
		syncRuns:      newMockSyncRunRepo(),
	}
	repo := &repository.Repository{
		User:                mocks.users,
		Course:              mocks.courses,
		Assignment:          mocks.assignments,
		Submission:          mocks.submissions,
		SubscriptionHistory: mocks.subscriptions,
		SyncRun:             mocks.syncRuns,
	}
	return repo, mocks
}
