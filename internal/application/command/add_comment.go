package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codeformaine/codecourse/internal/domain/assignment"
	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/internal/domain/user"
	"github.com/codeformaine/codecourse/pkg/logger"
	"github.com/codeformaine/codecourse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD COMMENT COMMAND
// Appends to the private discussion thread on one (assignment, student)
// pair. Two parties may write: the student the thread is about, and the
// teacher who owns the classroom.
// ══════════════════════════════════════════════════════════════════════════════

// AddCommentCommand contains the comment.
type AddCommentCommand struct {
	// CallerID is who is writing; student or classroom owner.
	CallerID string

	// AssignmentID / StudentID identify the thread.
	AssignmentID string
	StudentID    string

	// Body is the comment text.
	Body string
}

// Validate validates the command.
func (c AddCommentCommand) Validate() error {
	if c.CallerID == "" {
		return errors.New("add_comment: caller_id is required")
	}
	if c.AssignmentID == "" || c.StudentID == "" {
		return errors.New("add_comment: thread reference is required")
	}
	if strings.TrimSpace(c.Body) == "" {
		return errors.New("add_comment: body is required")
	}
	return nil
}

// AddCommentHandler handles the AddCommentCommand.
type AddCommentHandler struct {
	users          user.Repository
	classroomRepo  classroom.Repository
	assignmentRepo assignment.Repository
	commentRepo    assignment.CommentRepository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewAddCommentHandler creates a new AddCommentHandler.
func NewAddCommentHandler(
	users user.Repository,
	classroomRepo classroom.Repository,
	assignmentRepo assignment.Repository,
	commentRepo assignment.CommentRepository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *AddCommentHandler {
	return &AddCommentHandler{
		users:          users,
		classroomRepo:  classroomRepo,
		assignmentRepo: assignmentRepo,
		commentRepo:    commentRepo,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("add_comment")),
	}
}

// Handle executes the add comment command.
func (h *AddCommentHandler) Handle(ctx context.Context, cmd AddCommentCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("add_comment: validation failed: %w", err)
	}

	caller, err := h.users.GetByID(ctx, cmd.CallerID)
	if err != nil {
		return err
	}

	a, err := h.assignmentRepo.GetByID(ctx, cmd.AssignmentID)
	if err != nil {
		return err
	}

	switch {
	case caller.IsStudent():
		if caller.ID != cmd.StudentID {
			return shared.ErrForbidden
		}
	case caller.IsTeacher():
		room, err := h.classroomRepo.GetByID(ctx, a.ClassroomID)
		if err != nil {
			return err
		}
		if !room.OwnedBy(caller.ID) {
			return shared.ErrNotClassroomOwner
		}
	default:
		return shared.ErrForbidden
	}

	comment := &assignment.Comment{
		AssignmentID: a.ID,
		StudentID:    cmd.StudentID,
		AuthorRole:   caller.Role.String(),
		Body:         strings.TrimSpace(cmd.Body),
		CreatedAt:    timeutil.Now(),
	}

	if err := h.commentRepo.Add(ctx, comment); err != nil {
		return fmt.Errorf("add_comment: failed to add: %w", err)
	}

	_ = h.eventPublisher.Publish(shared.NewCommentAddedEvent(
		a.ID, a.ClassroomID, cmd.StudentID, caller.ID, comment.AuthorRole, a.LessonID, a.LessonLang,
	))

	h.log.Debug("comment added",
		logger.AssignmentID(a.ID),
		logger.StudentID(cmd.StudentID),
		logger.String("author_role", comment.AuthorRole),
	)

	return nil
}
