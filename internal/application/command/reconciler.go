// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"

	"github.com/codeformaine/codecourse/internal/domain/assignment"
	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/progress"
	"github.com/codeformaine/codecourse/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMISSION RECONCILER
// Single synchronization path between the progress ledger and the submission
// projection. Three situations converge here: a student passes a lesson, a
// student joins a classroom, and a teacher posts an assignment. Each fans out
// to per-(assignment, student) reconcile calls; the pairs involved differ,
// the write logic never does.
// ══════════════════════════════════════════════════════════════════════════════

// Reconciler fans ledger facts out into the submission projection.
type Reconciler struct {
	progressRepo   progress.Repository
	assignmentRepo assignment.Repository
	submissionRepo assignment.SubmissionRepository
	classroomRepo  classroom.Repository
	log            *logger.Logger
}

// NewReconciler creates a new Reconciler.
func NewReconciler(
	progressRepo progress.Repository,
	assignmentRepo assignment.Repository,
	submissionRepo assignment.SubmissionRepository,
	classroomRepo classroom.Repository,
	log *logger.Logger,
) *Reconciler {
	return &Reconciler{
		progressRepo:   progressRepo,
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		classroomRepo:  classroomRepo,
		log:            log.With(logger.Component("reconciler")),
	}
}

// ReconcilePair syncs one (assignment, student) pair against the ledger.
func (r *Reconciler) ReconcilePair(ctx context.Context, a *assignment.Assignment, studentID string) error {
	rec, err := r.progressRepo.Get(ctx, studentID, a.LessonID, a.LessonLang)
	if err != nil {
		return fmt.Errorf("reconcile: failed to read ledger: %w", err)
	}

	var completion *assignment.Completion
	if rec != nil {
		completion = &assignment.Completion{
			CompletedAt: rec.CompletedAt,
			Score:       rec.Score,
		}
	}

	if err := r.submissionRepo.Reconcile(ctx, a.ID, studentID, completion); err != nil {
		return fmt.Errorf("reconcile: failed to sync submission: %w", err)
	}

	return nil
}

// OnLessonPassed completes the student's pending submissions that target the
// just-passed lesson, across every joined classroom. Returns how many
// submissions moved to completed.
func (r *Reconciler) OnLessonPassed(ctx context.Context, rec *progress.Record) (int, error) {
	pending, err := r.submissionRepo.ListPending(ctx, rec.StudentID, rec.LessonID, rec.LessonLang)
	if err != nil {
		return 0, fmt.Errorf("reconcile: failed to list pending submissions: %w", err)
	}

	completion := &assignment.Completion{
		CompletedAt: rec.CompletedAt,
		Score:       rec.Score,
	}

	completed := 0
	for _, sub := range pending {
		if err := r.submissionRepo.Reconcile(ctx, sub.AssignmentID, rec.StudentID, completion); err != nil {
			return completed, fmt.Errorf("reconcile: failed to complete submission: %w", err)
		}
		completed++
	}

	if completed > 0 {
		r.log.Info("lesson pass reconciled",
			logger.StudentID(rec.StudentID),
			logger.Lesson(rec.LessonLang, rec.LessonID),
			logger.Int("submissions_completed", completed),
		)
	}

	return completed, nil
}

// OnStudentJoined backfills submissions for every assignment in the
// classroom the student just joined. Assignments matching lessons the
// student already passed complete immediately.
func (r *Reconciler) OnStudentJoined(ctx context.Context, classroomID, studentID string) error {
	assignments, err := r.assignmentRepo.ListByClassroom(ctx, classroomID)
	if err != nil {
		return fmt.Errorf("reconcile: failed to list assignments: %w", err)
	}

	for _, a := range assignments {
		if err := r.ReconcilePair(ctx, a, studentID); err != nil {
			return err
		}
	}

	return nil
}

// OnAssignmentCreated seeds submissions for every current member of the
// assignment's classroom. Runs before the assignment is acknowledged to the
// teacher, so a member list read right after creation always finds a row per
// member.
func (r *Reconciler) OnAssignmentCreated(ctx context.Context, a *assignment.Assignment) error {
	memberIDs, err := r.classroomRepo.MemberIDs(ctx, a.ClassroomID)
	if err != nil {
		return fmt.Errorf("reconcile: failed to list members: %w", err)
	}

	for _, studentID := range memberIDs {
		if err := r.ReconcilePair(ctx, a, studentID); err != nil {
			return err
		}
	}

	return nil
}
