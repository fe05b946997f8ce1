package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// POST ANNOUNCEMENT COMMAND
// The teacher addresses the whole classroom. The stream post and the member
// notifications are produced by the fan-out handler for the published event.
// ══════════════════════════════════════════════════════════════════════════════

// PostAnnouncementCommand contains the announcement.
type PostAnnouncementCommand struct {
	// TeacherID is the caller; must own the classroom.
	TeacherID string

	// ClassroomID is the target classroom.
	ClassroomID string

	// Message is the announcement text.
	Message string
}

// Validate validates the command.
func (c PostAnnouncementCommand) Validate() error {
	if c.TeacherID == "" {
		return errors.New("post_announcement: teacher_id is required")
	}
	if c.ClassroomID == "" {
		return errors.New("post_announcement: classroom_id is required")
	}
	if strings.TrimSpace(c.Message) == "" {
		return errors.New("post_announcement: message is required")
	}
	return nil
}

// PostAnnouncementHandler handles the PostAnnouncementCommand.
type PostAnnouncementHandler struct {
	roles          RoleChecker
	classroomRepo  classroom.Repository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewPostAnnouncementHandler creates a new PostAnnouncementHandler.
func NewPostAnnouncementHandler(
	roles RoleChecker,
	classroomRepo classroom.Repository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *PostAnnouncementHandler {
	return &PostAnnouncementHandler{
		roles:          roles,
		classroomRepo:  classroomRepo,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("post_announcement")),
	}
}

// Handle executes the post announcement command.
func (h *PostAnnouncementHandler) Handle(ctx context.Context, cmd PostAnnouncementCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("post_announcement: validation failed: %w", err)
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

	_ = h.eventPublisher.Publish(shared.NewAnnouncementPostedEvent(
		room.ID, room.Name, caller.ID, strings.TrimSpace(cmd.Message),
	))

	h.log.Info("announcement posted",
		logger.ClassroomID(room.ID),
		logger.TeacherID(caller.ID),
	)

	return nil
}
