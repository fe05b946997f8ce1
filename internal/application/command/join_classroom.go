package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/pkg/logger"
	"github.com/codeformaine/codecourse/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOIN CLASSROOM COMMAND
// A student redeems a join code. Joining is idempotent, and before the join
// is acknowledged every existing assignment in the classroom gets a
// submission row, completed immediately where the student's ledger already
// covers the lesson. Share links resolve to the same code, so there is one
// join path.
// ══════════════════════════════════════════════════════════════════════════════

// JoinClassroomCommand contains the join request.
type JoinClassroomCommand struct {
	// StudentID is the caller; must hold the student role.
	StudentID string

	// Code is the join code as typed; normalized before lookup.
	Code string
}

// Validate validates the command.
func (c JoinClassroomCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("join_classroom: student_id is required")
	}
	if !classroom.NormalizeCode(c.Code).IsValid() {
		return shared.ErrInvalidCode
	}
	return nil
}

// JoinClassroomResult contains the join outcome.
type JoinClassroomResult struct {
	// Classroom is the classroom that was joined.
	Classroom *classroom.Classroom

	// AlreadyMember reports that the student was a member before this call.
	// The repeat join is absorbed silently.
	AlreadyMember bool
}

// JoinClassroomHandler handles the JoinClassroomCommand.
type JoinClassroomHandler struct {
	roles          RoleChecker
	classroomRepo  classroom.Repository
	reconciler     *Reconciler
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewJoinClassroomHandler creates a new JoinClassroomHandler.
func NewJoinClassroomHandler(
	roles RoleChecker,
	classroomRepo classroom.Repository,
	reconciler *Reconciler,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *JoinClassroomHandler {
	return &JoinClassroomHandler{
		roles:          roles,
		classroomRepo:  classroomRepo,
		reconciler:     reconciler,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("join_classroom")),
	}
}

// Handle executes the join classroom command.
func (h *JoinClassroomHandler) Handle(ctx context.Context, cmd JoinClassroomCommand) (*JoinClassroomResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("join_classroom: validation failed: %w", err)
	}

	caller, err := h.roles.RequireStudent(ctx, cmd.StudentID)
	if err != nil {
		return nil, err
	}

	room, err := h.classroomRepo.GetByCode(ctx, classroom.NormalizeCode(cmd.Code))
	if err != nil {
		return nil, err
	}

	added, err := h.classroomRepo.AddMember(ctx, &classroom.Membership{
		ClassroomID: room.ID,
		StudentID:   caller.ID,
		JoinedAt:    timeutil.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("join_classroom: failed to add member: %w", err)
	}

	// Backfill runs even on a repeat join: it is cheap when nothing is
	// missing and it heals rows a crashed earlier join never seeded.
	if err := h.reconciler.OnStudentJoined(ctx, room.ID, caller.ID); err != nil {
		return nil, err
	}

	if added {
		_ = h.eventPublisher.Publish(shared.NewStudentJoinedEvent(room.ID, caller.ID))
		h.log.Info("student joined classroom",
			logger.ClassroomID(room.ID),
			logger.StudentID(caller.ID),
		)
	}

	return &JoinClassroomResult{Classroom: room, AlreadyMember: !added}, nil
}
