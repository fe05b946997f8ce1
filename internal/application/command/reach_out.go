package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/feed"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/internal/domain/user"
	"github.com/codeformaine/codecourse/pkg/logger"
	"github.com/codeformaine/codecourse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// REACH OUT COMMAND
// A teacher contacts one of their students directly, usually about falling
// behind. The log row is the durable record; email delivery is best effort.
// ══════════════════════════════════════════════════════════════════════════════

// ReachOutCommand contains the outreach.
type ReachOutCommand struct {
	// TeacherID is the caller.
	TeacherID string

	// StudentID is the recipient; must share a classroom with the caller.
	StudentID string

	// Message is the outreach text.
	Message string
}

// Validate validates the command.
func (c ReachOutCommand) Validate() error {
	if c.TeacherID == "" {
		return errors.New("reach_out: teacher_id is required")
	}
	if c.StudentID == "" {
		return errors.New("reach_out: student_id is required")
	}
	if strings.TrimSpace(c.Message) == "" {
		return errors.New("reach_out: message is required")
	}
	return nil
}

// ReachOutHandler handles the ReachOutCommand.
type ReachOutHandler struct {
	roles         RoleChecker
	users         user.Repository
	classroomRepo classroom.Repository
	reachOutRepo  feed.ReachOutRepository
	mailer        InviteMailer
	log           *logger.Logger
}

// NewReachOutHandler creates a new ReachOutHandler.
func NewReachOutHandler(
	roles RoleChecker,
	users user.Repository,
	classroomRepo classroom.Repository,
	reachOutRepo feed.ReachOutRepository,
	mailer InviteMailer,
	log *logger.Logger,
) *ReachOutHandler {
	return &ReachOutHandler{
		roles:         roles,
		users:         users,
		classroomRepo: classroomRepo,
		reachOutRepo:  reachOutRepo,
		mailer:        mailer,
		log:           log.With(logger.Component("reach_out")),
	}
}

// Handle executes the reach out command.
func (h *ReachOutHandler) Handle(ctx context.Context, cmd ReachOutCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("reach_out: validation failed: %w", err)
	}

	caller, err := h.roles.RequireTeacher(ctx, cmd.TeacherID)
	if err != nil {
		return err
	}

	student, err := h.users.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return err
	}

	ok, err := h.sharesClassroom(ctx, caller.ID, student.ID)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrForbidden
	}

	if err := h.reachOutRepo.Log(ctx, &feed.ReachOut{
		TeacherID: caller.ID,
		StudentID: student.ID,
		Message:   strings.TrimSpace(cmd.Message),
		SentAt:    timeutil.Now(),
	}); err != nil {
		return fmt.Errorf("reach_out: failed to log: %w", err)
	}

	subject := fmt.Sprintf("A note from %s", caller.Name)
	if err := h.mailer.Send(ctx, student.Email, subject, cmd.Message); err != nil {
		h.log.Warn("reach out mail failed",
			logger.Err(err),
			logger.StudentID(student.ID),
		)
	}

	h.log.Info("teacher reached out",
		logger.TeacherID(caller.ID),
		logger.StudentID(student.ID),
	)

	return nil
}

// sharesClassroom reports whether the student belongs to any of the
// teacher's classrooms.
func (h *ReachOutHandler) sharesClassroom(ctx context.Context, teacherID, studentID string) (bool, error) {
	rooms, err := h.classroomRepo.ListByTeacher(ctx, teacherID)
	if err != nil {
		return false, err
	}

	for _, room := range rooms {
		member, err := h.classroomRepo.IsMember(ctx, room.ID, studentID)
		if err != nil {
			return false, err
		}
		if member {
			return true, nil
		}
	}

	return false, nil
}
