package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codeformaine/codecourse/internal/domain/assignment"
	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/pkg/logger"
	"github.com/codeformaine/codecourse/pkg/timeutil"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE ASSIGNMENT COMMAND
// The teacher posts a lesson as classwork. Every current member gets a
// submission row before the command returns; members whose ledger already
// covers the lesson complete instantly.
// ══════════════════════════════════════════════════════════════════════════════

// LessonChecker verifies a lesson reference against the catalog.
type LessonChecker interface {
	LessonExists(lang string, lessonID int) bool
}

// CreateAssignmentCommand contains the data to create an assignment.
type CreateAssignmentCommand struct {
	// TeacherID is the caller; must own the classroom.
	TeacherID string

	// ClassroomID is the target classroom.
	ClassroomID string

	// LessonLang / LessonID identify the assigned lesson.
	LessonLang string
	LessonID   int

	// DueDate is optional; zero means no deadline.
	DueDate time.Time

	// Note is an optional teacher note.
	Note string
}

// Validate validates the command.
func (c CreateAssignmentCommand) Validate() error {
	if c.TeacherID == "" {
		return errors.New("create_assignment: teacher_id is required")
	}
	if c.ClassroomID == "" {
		return errors.New("create_assignment: classroom_id is required")
	}
	if c.LessonID <= 0 || strings.TrimSpace(c.LessonLang) == "" {
		return errors.New("create_assignment: lesson reference is required")
	}
	return nil
}

// CreateAssignmentHandler handles the CreateAssignmentCommand.
type CreateAssignmentHandler struct {
	roles          RoleChecker
	lessons        LessonChecker
	classroomRepo  classroom.Repository
	assignmentRepo assignment.Repository
	reconciler     *Reconciler
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewCreateAssignmentHandler creates a new CreateAssignmentHandler.
func NewCreateAssignmentHandler(
	roles RoleChecker,
	lessons LessonChecker,
	classroomRepo classroom.Repository,
	assignmentRepo assignment.Repository,
	reconciler *Reconciler,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *CreateAssignmentHandler {
	return &CreateAssignmentHandler{
		roles:          roles,
		lessons:        lessons,
		classroomRepo:  classroomRepo,
		assignmentRepo: assignmentRepo,
		reconciler:     reconciler,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("create_assignment")),
	}
}

// Handle executes the create assignment command.
func (h *CreateAssignmentHandler) Handle(ctx context.Context, cmd CreateAssignmentCommand) (*assignment.Assignment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("create_assignment: validation failed: %w", err)
	}

	caller, err := h.roles.RequireTeacher(ctx, cmd.TeacherID)
	if err != nil {
		return nil, err
	}

	room, err := h.classroomRepo.GetByID(ctx, cmd.ClassroomID)
	if err != nil {
		return nil, err
	}
	if !room.OwnedBy(caller.ID) {
		return nil, shared.ErrNotClassroomOwner
	}

	lang := strings.ToLower(strings.TrimSpace(cmd.LessonLang))
	if !h.lessons.LessonExists(lang, cmd.LessonID) {
		return nil, shared.ErrLessonNotFound
	}

	a := &assignment.Assignment{
		ID:          uuid.New().String(),
		ClassroomID: room.ID,
		LessonID:    cmd.LessonID,
		LessonLang:  lang,
		DueDate:     cmd.DueDate,
		Note:        strings.TrimSpace(cmd.Note),
		CreatedAt:   timeutil.Now(),
	}

	if err := h.assignmentRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create_assignment: failed to create: %w", err)
	}

	// Seed every member's submission before acknowledging the assignment.
	if err := h.reconciler.OnAssignmentCreated(ctx, a); err != nil {
		return nil, err
	}

	_ = h.eventPublisher.Publish(shared.NewAssignmentCreatedEvent(
		a.ID, room.ID, room.Name, caller.ID, a.LessonID, a.LessonLang, a.DueDate, a.Note,
	))

	h.log.Info("assignment created",
		logger.AssignmentID(a.ID),
		logger.ClassroomID(room.ID),
		logger.Lesson(a.LessonLang, a.LessonID),
	)

	return a, nil
}
