package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/codeformaine/codecourse/internal/domain/progress"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/pkg/logger"
	"github.com/codeformaine/codecourse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPLETE LESSON COMMAND
// A student submits quiz answers for a lesson. On a passing grade the ledger
// gains a record (at most once per lesson), the streak is touched, and every
// pending submission targeting the lesson completes.
// ══════════════════════════════════════════════════════════════════════════════

// QuizGrader scores a quiz attempt against the lesson catalog.
type QuizGrader interface {
	GradeQuiz(lang string, lessonID int, answers []int) (QuizScore, error)
}

// QuizScore is what the grader reports back.
type QuizScore struct {
	Score  int
	Passed bool
	XP     int
}

// CompleteLessonCommand contains one quiz attempt.
type CompleteLessonCommand struct {
	// StudentID is the caller; role is checked by the interface layer.
	StudentID string

	// LessonLang / LessonID identify the lesson.
	LessonLang string
	LessonID   int

	// Answers are option indexes aligned with the quiz questions.
	Answers []int
}

// Validate validates the command.
func (c CompleteLessonCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("complete_lesson: student_id is required")
	}
	if c.LessonID <= 0 || c.LessonLang == "" {
		return errors.New("complete_lesson: lesson reference is required")
	}
	return nil
}

// CompleteLessonResult contains the attempt outcome.
type CompleteLessonResult struct {
	// Score is the percentage achieved.
	Score int

	// Passed reports whether the score cleared the lesson's threshold.
	Passed bool

	// XPAwarded is nonzero only on a first-time pass.
	XPAwarded int

	// FirstPass reports whether a new ledger record was created. A re-pass
	// grades the quiz but changes nothing downstream.
	FirstPass bool

	// SubmissionsCompleted is how many pending assignment submissions the
	// pass completed.
	SubmissionsCompleted int

	// Streak is the streak after this attempt.
	Streak progress.Streak
}

// CompleteLessonHandler handles the CompleteLessonCommand.
type CompleteLessonHandler struct {
	grader         QuizGrader
	progressRepo   progress.Repository
	streakStore    progress.StreakStore
	reconciler     *Reconciler
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewCompleteLessonHandler creates a new CompleteLessonHandler.
func NewCompleteLessonHandler(
	grader QuizGrader,
	progressRepo progress.Repository,
	streakStore progress.StreakStore,
	reconciler *Reconciler,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *CompleteLessonHandler {
	return &CompleteLessonHandler{
		grader:         grader,
		progressRepo:   progressRepo,
		streakStore:    streakStore,
		reconciler:     reconciler,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("complete_lesson")),
	}
}

// Handle executes the complete lesson command.
func (h *CompleteLessonHandler) Handle(ctx context.Context, cmd CompleteLessonCommand) (*CompleteLessonResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("complete_lesson: validation failed: %w", err)
	}

	graded, err := h.grader.GradeQuiz(cmd.LessonLang, cmd.LessonID, cmd.Answers)
	if err != nil {
		return nil, err
	}

	result := &CompleteLessonResult{
		Score:  graded.Score,
		Passed: graded.Passed,
	}

	streak, err := h.streakStore.GetStreak(ctx, cmd.StudentID)
	if err != nil {
		return nil, err
	}
	result.Streak = streak

	if !graded.Passed {
		return result, nil
	}

	now := timeutil.Now()
	rec := &progress.Record{
		StudentID:   cmd.StudentID,
		LessonID:    cmd.LessonID,
		LessonLang:  cmd.LessonLang,
		Score:       graded.Score,
		XP:          graded.XP,
		CompletedAt: now,
	}

	created, err := h.progressRepo.RecordCompletion(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("complete_lesson: failed to record completion: %w", err)
	}
	result.FirstPass = created
	if created {
		result.XPAwarded = graded.XP
	}

	// Only a first pass touches the streak; re-passing an already-passed
	// lesson does not count as new activity.
	next := streak
	if created {
		next = streak.Touch(now)
		if next != streak {
			if err := h.streakStore.SaveStreak(ctx, cmd.StudentID, next); err != nil {
				return nil, fmt.Errorf("complete_lesson: failed to save streak: %w", err)
			}
		}
	}
	result.Streak = next

	// The ledger record, not the fresh attempt, drives reconciliation: a
	// re-pass syncs against the original completion facts.
	stored, err := h.progressRepo.Get(ctx, cmd.StudentID, cmd.LessonID, cmd.LessonLang)
	if err != nil {
		return nil, fmt.Errorf("complete_lesson: failed to read ledger: %w", err)
	}
	if stored != nil {
		completed, err := h.reconciler.OnLessonPassed(ctx, stored)
		if err != nil {
			return nil, err
		}
		result.SubmissionsCompleted = completed
	}

	if created {
		_ = h.eventPublisher.Publish(shared.NewLessonCompletedEvent(
			cmd.StudentID, cmd.LessonID, cmd.LessonLang, graded.Score, graded.XP,
		))
	}
	if streak.Advanced(next) {
		_ = h.eventPublisher.Publish(shared.NewStreakAdvancedEvent(cmd.StudentID, next.Count))
	}

	h.log.Info("quiz passed",
		logger.StudentID(cmd.StudentID),
		logger.Lesson(cmd.LessonLang, cmd.LessonID),
		logger.Score(graded.Score),
		logger.Int("streak", next.Count),
	)

	return result, nil
}
