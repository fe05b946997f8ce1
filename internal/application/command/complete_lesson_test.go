package command

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeformaine/codecourse/internal/domain/progress"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/pkg/logger"
	"github.com/codeformaine/codecourse/pkg/timeutil"
)

func (f *fakeLedger) RecordCompletion(_ context.Context, rec *progress.Record) (bool, error) {
	key := ledgerKey(rec.StudentID, rec.LessonID, rec.LessonLang)
	if _, exists := f.records[key]; exists {
		return false, nil
	}
	f.records[key] = rec
	return true, nil
}

type fakeStreakStore struct {
	streaks map[string]progress.Streak
	saves   int
}

func newFakeStreakStore() *fakeStreakStore {
	return &fakeStreakStore{streaks: make(map[string]progress.Streak)}
}

func (f *fakeStreakStore) GetStreak(_ context.Context, studentID string) (progress.Streak, error) {
	return f.streaks[studentID], nil
}

func (f *fakeStreakStore) SaveStreak(_ context.Context, studentID string, s progress.Streak) error {
	f.streaks[studentID] = s
	f.saves++
	return nil
}

type fakeGrader struct {
	result QuizScore
	err    error
}

func (f fakeGrader) GradeQuiz(string, int, []int) (QuizScore, error) {
	return f.result, f.err
}

type fakePublisher struct {
	events []shared.Event
}

func (f *fakePublisher) Publish(e shared.Event) error {
	f.events = append(f.events, e)
	return nil
}

func (f *fakePublisher) eventTypes() []shared.EventType {
	types := make([]shared.EventType, 0, len(f.events))
	for _, e := range f.events {
		types = append(types, e.EventType())
	}
	return types
}

type completeLessonFixture struct {
	*reconcilerFixture
	streaks   *fakeStreakStore
	publisher *fakePublisher
}

func newCompleteLessonFixture(grader fakeGrader) (*completeLessonFixture, *CompleteLessonHandler) {
	f := &completeLessonFixture{
		reconcilerFixture: newReconcilerFixture(),
		streaks:           newFakeStreakStore(),
		publisher:         &fakePublisher{},
	}

	h := NewCompleteLessonHandler(
		grader,
		f.ledger,
		f.streaks,
		f.reconciler,
		f.publisher,
		logger.New(logger.Options{Output: io.Discard}),
	)
	return f, h
}

func passingCmd() CompleteLessonCommand {
	return CompleteLessonCommand{
		StudentID:  "s1",
		LessonLang: "python",
		LessonID:   4,
		Answers:    []int{0, 1, 0, 1},
	}
}

func TestCompleteLesson_Validate(t *testing.T) {
	assert.NoError(t, passingCmd().Validate())

	cmd := passingCmd()
	cmd.StudentID = ""
	assert.Error(t, cmd.Validate())

	cmd = passingCmd()
	cmd.LessonID = 0
	assert.Error(t, cmd.Validate())

	cmd = passingCmd()
	cmd.LessonLang = ""
	assert.Error(t, cmd.Validate())
}

func TestCompleteLesson_FailedAttempt(t *testing.T) {
	f, h := newCompleteLessonFixture(fakeGrader{result: QuizScore{Score: 50, Passed: false}})

	res, err := h.Handle(context.Background(), passingCmd())
	require.NoError(t, err)

	assert.Equal(t, 50, res.Score)
	assert.False(t, res.Passed)
	assert.False(t, res.FirstPass)
	assert.Zero(t, res.XPAwarded)

	// A fail leaves no trace: no ledger record, no streak save, no events.
	assert.Empty(t, f.ledger.records)
	assert.Zero(t, f.streaks.saves)
	assert.Empty(t, f.publisher.events)
}

func TestCompleteLesson_FirstPass(t *testing.T) {
	f, h := newCompleteLessonFixture(fakeGrader{result: QuizScore{Score: 85, Passed: true, XP: 50}})

	res, err := h.Handle(context.Background(), passingCmd())
	require.NoError(t, err)

	assert.True(t, res.Passed)
	assert.True(t, res.FirstPass)
	assert.Equal(t, 50, res.XPAwarded)
	assert.Equal(t, 1, res.Streak.Count)

	require.Len(t, f.ledger.records, 1)
	assert.Equal(t, []shared.EventType{
		shared.EventLessonCompleted,
		shared.EventStreakAdvanced,
	}, f.publisher.eventTypes())
}

func TestCompleteLesson_RePassIsInert(t *testing.T) {
	f, h := newCompleteLessonFixture(fakeGrader{result: QuizScore{Score: 85, Passed: true, XP: 50}})
	ctx := context.Background()

	first, err := h.Handle(ctx, passingCmd())
	require.NoError(t, err)
	require.True(t, first.FirstPass)

	second, err := h.Handle(ctx, passingCmd())
	require.NoError(t, err)

	// The quiz is graded but nothing downstream moves: the ledger keeps its
	// single record, no XP re-awarded, same-day streak unchanged, no events.
	assert.True(t, second.Passed)
	assert.False(t, second.FirstPass)
	assert.Zero(t, second.XPAwarded)
	assert.Equal(t, first.Streak.Count, second.Streak.Count)
	assert.Len(t, f.ledger.records, 1)
	assert.Len(t, f.publisher.events, 2)
}

func TestCompleteLesson_RePassNextDayLeavesStreakAlone(t *testing.T) {
	// Re-passing on a later day is not new activity: only a first pass
	// touches the streak.
	f, h := newCompleteLessonFixture(fakeGrader{result: QuizScore{Score: 85, Passed: true, XP: 50}})

	f.ledger.add(testRecord())
	yesterday := timeutil.StartOfDay(timeutil.Now().AddDate(0, 0, -1))
	f.streaks.streaks["s1"] = progress.Streak{Count: 5, LastActive: yesterday}

	res, err := h.Handle(context.Background(), passingCmd())
	require.NoError(t, err)

	assert.False(t, res.FirstPass)
	assert.Equal(t, 5, res.Streak.Count)
	assert.Equal(t, yesterday, res.Streak.LastActive)
	assert.Zero(t, f.streaks.saves)
	assert.NotContains(t, f.publisher.eventTypes(), shared.EventStreakAdvanced)
}

func TestCompleteLesson_RePassStillReconciles(t *testing.T) {
	// An assignment posted after the original pass leaves a pending
	// submission; a re-pass syncs it against the stored ledger facts.
	f, h := newCompleteLessonFixture(fakeGrader{result: QuizScore{Score: 85, Passed: true, XP: 50}})
	ctx := context.Background()

	_, err := h.Handle(ctx, passingCmd())
	require.NoError(t, err)

	a := testAssignment()
	f.assignments.add(a)
	f.classrooms.members["c1"] = []string{"s1"}
	require.NoError(t, f.submissions.Reconcile(ctx, a.ID, "s1", nil))

	res, err := h.Handle(ctx, passingCmd())
	require.NoError(t, err)

	assert.Equal(t, 1, res.SubmissionsCompleted)
	sub := f.submissions.rows[pairKey("a1", "s1")]
	require.NotNil(t, sub)
	assert.True(t, sub.IsCompleted())
	assert.Equal(t, 85, *sub.Score)

	// The original completion time is what lands on the submission.
	stored := f.ledger.records[ledgerKey("s1", 4, "python")]
	assert.Equal(t, stored.CompletedAt, *sub.CompletedAt)
}

func TestCompleteLesson_GraderError(t *testing.T) {
	_, h := newCompleteLessonFixture(fakeGrader{err: errors.New("lesson not found")})

	_, err := h.Handle(context.Background(), passingCmd())
	assert.Error(t, err)
}
