package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/pkg/logger"
	"github.com/codeformaine/codecourse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// INVITE STUDENT COMMAND
// Bookmarks an email for a classroom and mails the join code. The invite
// grants nothing: joining still requires redeeming the code, so a leaked
// invite mail carries no more power than a whiteboard photo.
// ══════════════════════════════════════════════════════════════════════════════

// InviteMailer sends the invite mail; best effort.
type InviteMailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// InviteStudentCommand contains the invite request.
type InviteStudentCommand struct {
	// TeacherID is the caller; must own the classroom.
	TeacherID string

	// ClassroomID is the classroom being invited to.
	ClassroomID string

	// Email is the invitee's address.
	Email string
}

// Validate validates the command.
func (c InviteStudentCommand) Validate() error {
	if c.TeacherID == "" {
		return errors.New("invite_student: teacher_id is required")
	}
	if c.ClassroomID == "" {
		return errors.New("invite_student: classroom_id is required")
	}
	email := strings.TrimSpace(c.Email)
	if email == "" || !strings.Contains(email, "@") {
		return errors.New("invite_student: a valid email is required")
	}
	return nil
}

// InviteStudentHandler handles the InviteStudentCommand.
type InviteStudentHandler struct {
	roles         RoleChecker
	classroomRepo classroom.Repository
	mailer        InviteMailer
	log           *logger.Logger
}

// NewInviteStudentHandler creates a new InviteStudentHandler.
func NewInviteStudentHandler(
	roles RoleChecker,
	classroomRepo classroom.Repository,
	mailer InviteMailer,
	log *logger.Logger,
) *InviteStudentHandler {
	return &InviteStudentHandler{
		roles:         roles,
		classroomRepo: classroomRepo,
		mailer:        mailer,
		log:           log.With(logger.Component("invite_student")),
	}
}

// Handle executes the invite student command.
func (h *InviteStudentHandler) Handle(ctx context.Context, cmd InviteStudentCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("invite_student: validation failed: %w", err)
	}

	caller, err := h.roles.RequireTeacher(ctx, cmd.TeacherID)
	if err != nil {
		return err
	}

	room, err := h.classroomRepo.GetByID(ctx, cmd.ClassroomID)
	if err != nil {
		return err
	}
	if !room.OwnedBy(caller.ID) {
		return shared.ErrNotClassroomOwner
	}

	email := strings.ToLower(strings.TrimSpace(cmd.Email))
	if err := h.classroomRepo.SaveInvite(ctx, &classroom.Invite{
		ClassroomID: room.ID,
		Email:       email,
		InvitedAt:   timeutil.Now(),
	}); err != nil {
		return fmt.Errorf("invite_student: failed to save invite: %w", err)
	}

	subject := fmt.Sprintf("You're invited to %s", room.Name)
	body := fmt.Sprintf(
		"%s invited you to the classroom %q.\n\nJoin with code: %s\n",
		caller.Name, room.Name, room.Code,
	)
	if err := h.mailer.Send(ctx, email, subject, body); err != nil {
		// The invite row is the durable record; mail is best effort.
		h.log.Warn("invite mail failed",
			logger.Err(err),
			logger.ClassroomID(room.ID),
			logger.String("email", email),
		)
	}

	h.log.Info("student invited",
		logger.ClassroomID(room.ID),
		logger.String("email", email),
	)

	return nil
}
