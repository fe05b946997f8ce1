package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DELETE CLASSROOM COMMAND
// Removes a classroom with its memberships, assignments, submissions,
// invites, stream posts and classroom-scoped notifications. The progress
// ledger is untouched: passed lessons outlive any classroom.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteClassroomCommand contains the deletion request.
type DeleteClassroomCommand struct {
	// TeacherID is the caller; must own the classroom.
	TeacherID string

	// ClassroomID is the classroom to delete.
	ClassroomID string
}

// Validate validates the command.
func (c DeleteClassroomCommand) Validate() error {
	if c.TeacherID == "" {
		return errors.New("delete_classroom: teacher_id is required")
	}
	if c.ClassroomID == "" {
		return errors.New("delete_classroom: classroom_id is required")
	}
	return nil
}

// DeleteClassroomHandler handles the DeleteClassroomCommand.
type DeleteClassroomHandler struct {
	roles          RoleChecker
	classroomRepo  classroom.Repository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewDeleteClassroomHandler creates a new DeleteClassroomHandler.
func NewDeleteClassroomHandler(
	roles RoleChecker,
	classroomRepo classroom.Repository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *DeleteClassroomHandler {
	return &DeleteClassroomHandler{
		roles:          roles,
		classroomRepo:  classroomRepo,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("delete_classroom")),
	}
}

// Handle executes the delete classroom command.
func (h *DeleteClassroomHandler) Handle(ctx context.Context, cmd DeleteClassroomCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("delete_classroom: validation failed: %w", err)
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

	if err := h.classroomRepo.Delete(ctx, room.ID); err != nil {
		return fmt.Errorf("delete_classroom: failed to delete: %w", err)
	}

	_ = h.eventPublisher.Publish(shared.NewClassroomDeletedEvent(room.ID, caller.ID))

	h.log.Info("classroom deleted",
		logger.ClassroomID(room.ID),
		logger.TeacherID(caller.ID),
	)

	return nil
}
