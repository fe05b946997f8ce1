package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/codeformaine/codecourse/internal/domain/assignment"
	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRADE SUBMISSION COMMAND
// The teacher marks one submission out of ten. The grade is independent of
// completion state (an incomplete submission can be graded) and independent
// of reconciliation (syncs never touch it). Re-grading overwrites: last
// write wins, with no audit trail kept.
// ══════════════════════════════════════════════════════════════════════════════

// GradeSubmissionCommand contains the grading request.
type GradeSubmissionCommand struct {
	// TeacherID is the caller; must own the submission's classroom.
	TeacherID string

	// SubmissionID is the row to grade.
	SubmissionID string

	// Grade is the mark, 0 to 10 inclusive.
	Grade int
}

// Validate validates the command.
func (c GradeSubmissionCommand) Validate() error {
	if c.TeacherID == "" {
		return errors.New("grade_submission: teacher_id is required")
	}
	if c.SubmissionID == "" {
		return errors.New("grade_submission: submission_id is required")
	}
	if !assignment.Grade(c.Grade).IsValid() {
		return shared.ErrGradeOutOfRange
	}
	return nil
}

// GradeSubmissionHandler handles the GradeSubmissionCommand.
type GradeSubmissionHandler struct {
	roles          RoleChecker
	classroomRepo  classroom.Repository
	assignmentRepo assignment.Repository
	submissionRepo assignment.SubmissionRepository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewGradeSubmissionHandler creates a new GradeSubmissionHandler.
func NewGradeSubmissionHandler(
	roles RoleChecker,
	classroomRepo classroom.Repository,
	assignmentRepo assignment.Repository,
	submissionRepo assignment.SubmissionRepository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *GradeSubmissionHandler {
	return &GradeSubmissionHandler{
		roles:          roles,
		classroomRepo:  classroomRepo,
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("grade_submission")),
	}
}

// Handle executes the grade submission command.
func (h *GradeSubmissionHandler) Handle(ctx context.Context, cmd GradeSubmissionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	caller, err := h.roles.RequireTeacher(ctx, cmd.TeacherID)
	if err != nil {
		return err
	}

	sub, err := h.submissionRepo.GetByID(ctx, cmd.SubmissionID)
	if err != nil {
		return err
	}

	a, err := h.assignmentRepo.GetByID(ctx, sub.AssignmentID)
	if err != nil {
		return err
	}

	room, err := h.classroomRepo.GetByID(ctx, a.ClassroomID)
	if err != nil {
		return err
	}
	if !room.OwnedBy(caller.ID) {
		return shared.ErrNotClassroomOwner
	}

	if err := h.submissionRepo.SetGrade(ctx, sub.ID, assignment.Grade(cmd.Grade)); err != nil {
		return fmt.Errorf("grade_submission: failed to set grade: %w", err)
	}

	_ = h.eventPublisher.Publish(shared.NewSubmissionGradedEvent(
		sub.ID, room.ID, caller.ID, sub.StudentID, a.LessonID, a.LessonLang, cmd.Grade,
	))

	h.log.Info("submission graded",
		logger.SubmissionID(sub.ID),
		logger.StudentID(sub.StudentID),
		logger.Int("grade", cmd.Grade),
	)

	return nil
}
