package command

import (
	"context"
	"io"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeformaine/codecourse/internal/domain/assignment"
	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/progress"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/pkg/logger"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeLedger struct {
	progress.Repository
	records map[string]*progress.Record
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: make(map[string]*progress.Record)}
}

func ledgerKey(studentID string, lessonID int, lessonLang string) string {
	return studentID + "|" + lessonLang + "|" + strconv.Itoa(lessonID)
}

func (f *fakeLedger) add(rec *progress.Record) {
	f.records[ledgerKey(rec.StudentID, rec.LessonID, rec.LessonLang)] = rec
}

func (f *fakeLedger) Get(_ context.Context, studentID string, lessonID int, lessonLang string) (*progress.Record, error) {
	return f.records[ledgerKey(studentID, lessonID, lessonLang)], nil
}

type fakeAssignmentRepo struct {
	assignment.Repository
	byClassroom map[string][]*assignment.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{byClassroom: make(map[string][]*assignment.Assignment)}
}

func (f *fakeAssignmentRepo) add(a *assignment.Assignment) {
	f.byClassroom[a.ClassroomID] = append(f.byClassroom[a.ClassroomID], a)
}

func (f *fakeAssignmentRepo) ListByClassroom(_ context.Context, classroomID string) ([]*assignment.Assignment, error) {
	return f.byClassroom[classroomID], nil
}

func (f *fakeAssignmentRepo) lookup(id string) *assignment.Assignment {
	for _, list := range f.byClassroom {
		for _, a := range list {
			if a.ID == id {
				return a
			}
		}
	}
	return nil
}

type fakeClassroomRepo struct {
	classroom.Repository
	members map[string][]string
	rooms   map[string]*classroom.Classroom
}

func newFakeClassroomRepo() *fakeClassroomRepo {
	return &fakeClassroomRepo{
		members: make(map[string][]string),
		rooms:   make(map[string]*classroom.Classroom),
	}
}

func (f *fakeClassroomRepo) MemberIDs(_ context.Context, classroomID string) ([]string, error) {
	return f.members[classroomID], nil
}

func (f *fakeClassroomRepo) GetByID(_ context.Context, id string) (*classroom.Classroom, error) {
	room, ok := f.rooms[id]
	if !ok {
		return nil, shared.ErrClassroomNotFound
	}
	return room, nil
}

// fakeSubmissionRepo implements the two-step reconcile contract in memory:
// insert-if-absent, then a conditional completion guarded by the current
// status, never touching the grade.
type fakeSubmissionRepo struct {
	assignment.SubmissionRepository
	assignments *fakeAssignmentRepo
	rows        map[string]*assignment.Submission
}

func newFakeSubmissionRepo(assignments *fakeAssignmentRepo) *fakeSubmissionRepo {
	return &fakeSubmissionRepo{
		assignments: assignments,
		rows:        make(map[string]*assignment.Submission),
	}
}

func pairKey(assignmentID, studentID string) string {
	return assignmentID + "|" + studentID
}

func (f *fakeSubmissionRepo) Reconcile(_ context.Context, assignmentID, studentID string, c *assignment.Completion) error {
	key := pairKey(assignmentID, studentID)
	sub, ok := f.rows[key]
	if !ok {
		sub = &assignment.Submission{
			ID:           key,
			AssignmentID: assignmentID,
			StudentID:    studentID,
			Status:       assignment.StatusAssigned,
		}
		f.rows[key] = sub
	}

	if c != nil && sub.Status != assignment.StatusCompleted {
		at := c.CompletedAt
		score := c.Score
		sub.Status = assignment.StatusCompleted
		sub.CompletedAt = &at
		sub.Score = &score
	}

	return nil
}

func (f *fakeSubmissionRepo) ListPending(_ context.Context, studentID string, lessonID int, lessonLang string) ([]*assignment.Submission, error) {
	var pending []*assignment.Submission
	for _, sub := range f.rows {
		if sub.StudentID != studentID || sub.IsCompleted() {
			continue
		}
		a := f.assignments.lookup(sub.AssignmentID)
		if a != nil && a.LessonID == lessonID && a.LessonLang == lessonLang {
			pending = append(pending, sub)
		}
	}
	return pending, nil
}

func (f *fakeSubmissionRepo) SetGrade(_ context.Context, submissionID string, grade assignment.Grade) error {
	for _, sub := range f.rows {
		if sub.ID == submissionID {
			g := grade
			sub.GradeOutOf10 = &g
			return nil
		}
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

type reconcilerFixture struct {
	ledger      *fakeLedger
	assignments *fakeAssignmentRepo
	submissions *fakeSubmissionRepo
	classrooms  *fakeClassroomRepo
	reconciler  *Reconciler
}

func newReconcilerFixture() *reconcilerFixture {
	ledger := newFakeLedger()
	assignments := newFakeAssignmentRepo()
	submissions := newFakeSubmissionRepo(assignments)
	classrooms := newFakeClassroomRepo()

	log := logger.New(logger.Options{Output: io.Discard})

	return &reconcilerFixture{
		ledger:      ledger,
		assignments: assignments,
		submissions: submissions,
		classrooms:  classrooms,
		reconciler:  NewReconciler(ledger, assignments, submissions, classrooms, log),
	}
}

var testCompletedAt = time.Date(2026, time.March, 2, 14, 30, 0, 0, time.UTC)

func testAssignment() *assignment.Assignment {
	return &assignment.Assignment{
		ID:          "a1",
		ClassroomID: "c1",
		LessonID:    4,
		LessonLang:  "python",
	}
}

func testRecord() *progress.Record {
	return &progress.Record{
		StudentID:   "s1",
		LessonID:    4,
		LessonLang:  "python",
		Score:       85,
		XP:          50,
		CompletedAt: testCompletedAt,
	}
}

func TestReconcilePair_NoLedgerRecord(t *testing.T) {
	f := newReconcilerFixture()
	ctx := context.Background()

	err := f.reconciler.ReconcilePair(ctx, testAssignment(), "s1")
	require.NoError(t, err)

	sub := f.submissions.rows[pairKey("a1", "s1")]
	require.NotNil(t, sub)
	assert.Equal(t, assignment.StatusAssigned, sub.Status)
	assert.Nil(t, sub.CompletedAt)
	assert.Nil(t, sub.Score)
}

func TestReconcilePair_LedgerRecordCompletes(t *testing.T) {
	f := newReconcilerFixture()
	ctx := context.Background()

	f.ledger.add(testRecord())

	err := f.reconciler.ReconcilePair(ctx, testAssignment(), "s1")
	require.NoError(t, err)

	sub := f.submissions.rows[pairKey("a1", "s1")]
	require.NotNil(t, sub)
	assert.True(t, sub.IsCompleted())
	assert.Equal(t, testCompletedAt, *sub.CompletedAt)
	assert.Equal(t, 85, *sub.Score)
}

func TestReconcilePair_Idempotent(t *testing.T) {
	f := newReconcilerFixture()
	ctx := context.Background()

	f.ledger.add(testRecord())
	a := testAssignment()

	require.NoError(t, f.reconciler.ReconcilePair(ctx, a, "s1"))
	first := *f.submissions.rows[pairKey("a1", "s1")]

	require.NoError(t, f.reconciler.ReconcilePair(ctx, a, "s1"))
	second := *f.submissions.rows[pairKey("a1", "s1")]

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, *first.CompletedAt, *second.CompletedAt)
	assert.Equal(t, *first.Score, *second.Score)
	assert.Len(t, f.submissions.rows, 1)
}

func TestReconcilePair_CompletionIsMonotonic(t *testing.T) {
	f := newReconcilerFixture()
	ctx := context.Background()

	f.ledger.add(testRecord())
	a := testAssignment()

	require.NoError(t, f.reconciler.ReconcilePair(ctx, a, "s1"))
	sub := f.submissions.rows[pairKey("a1", "s1")]
	require.True(t, sub.IsCompleted())

	// A later reconcile that finds no ledger record (the ledger is
	// append-only, but the guard must hold regardless) leaves the row alone.
	f.ledger.records = map[string]*progress.Record{}
	require.NoError(t, f.reconciler.ReconcilePair(ctx, a, "s1"))

	sub = f.submissions.rows[pairKey("a1", "s1")]
	assert.True(t, sub.IsCompleted())
	assert.Equal(t, testCompletedAt, *sub.CompletedAt)
	assert.Equal(t, 85, *sub.Score)
}

func TestReconcile_OrderIndependent(t *testing.T) {
	// The three triggers (student joins, assignment posted, lesson passed)
	// must converge to the same completed submission in every arrival order.
	type step func(t *testing.T, f *reconcilerFixture)

	join := func(t *testing.T, f *reconcilerFixture) {
		f.classrooms.members["c1"] = []string{"s1"}
		require.NoError(t, f.reconciler.OnStudentJoined(context.Background(), "c1", "s1"))
	}
	assign := func(t *testing.T, f *reconcilerFixture) {
		f.assignments.add(testAssignment())
		require.NoError(t, f.reconciler.OnAssignmentCreated(context.Background(), testAssignment()))
	}
	complete := func(t *testing.T, f *reconcilerFixture) {
		f.ledger.add(testRecord())
		_, err := f.reconciler.OnLessonPassed(context.Background(), testRecord())
		require.NoError(t, err)
	}

	orderings := []struct {
		name  string
		steps []step
	}{
		{"join-assign-complete", []step{join, assign, complete}},
		{"join-complete-assign", []step{join, complete, assign}},
		{"assign-join-complete", []step{assign, join, complete}},
		{"assign-complete-join", []step{assign, complete, join}},
		{"complete-join-assign", []step{complete, join, assign}},
		{"complete-assign-join", []step{complete, assign, join}},
	}

	for _, o := range orderings {
		t.Run(o.name, func(t *testing.T) {
			f := newReconcilerFixture()
			for _, s := range o.steps {
				s(t, f)
			}

			require.Len(t, f.submissions.rows, 1)
			sub := f.submissions.rows[pairKey("a1", "s1")]
			require.NotNil(t, sub)
			assert.True(t, sub.IsCompleted())
			assert.Equal(t, testCompletedAt, *sub.CompletedAt)
			assert.Equal(t, 85, *sub.Score)
		})
	}
}

func TestOnLessonPassed_CountsCompletions(t *testing.T) {
	// The same lesson assigned in two classrooms completes both submissions
	// from a single pass.
	f := newReconcilerFixture()
	ctx := context.Background()

	a1 := testAssignment()
	a2 := &assignment.Assignment{ID: "a2", ClassroomID: "c2", LessonID: 4, LessonLang: "python"}
	f.assignments.add(a1)
	f.assignments.add(a2)

	require.NoError(t, f.reconciler.ReconcilePair(ctx, a1, "s1"))
	require.NoError(t, f.reconciler.ReconcilePair(ctx, a2, "s1"))

	f.ledger.add(testRecord())
	completed, err := f.reconciler.OnLessonPassed(ctx, testRecord())
	require.NoError(t, err)

	assert.Equal(t, 2, completed)
	assert.True(t, f.submissions.rows[pairKey("a1", "s1")].IsCompleted())
	assert.True(t, f.submissions.rows[pairKey("a2", "s1")].IsCompleted())
}

func TestReconcile_GradeSurvivesReconciliation(t *testing.T) {
	f := newReconcilerFixture()
	ctx := context.Background()

	a := testAssignment()
	require.NoError(t, f.reconciler.ReconcilePair(ctx, a, "s1"))

	key := pairKey("a1", "s1")
	require.NoError(t, f.submissions.SetGrade(ctx, key, assignment.Grade(7)))

	// Completion arriving after grading keeps the mark intact.
	f.ledger.add(testRecord())
	require.NoError(t, f.reconciler.ReconcilePair(ctx, a, "s1"))

	sub := f.submissions.rows[key]
	assert.True(t, sub.IsCompleted())
	require.NotNil(t, sub.GradeOutOf10)
	assert.Equal(t, assignment.Grade(7), *sub.GradeOutOf10)
}
