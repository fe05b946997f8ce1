package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/internal/domain/user"
	"github.com/codeformaine/codecourse/pkg/logger"
	"github.com/codeformaine/codecourse/pkg/timeutil"

	"github.com/google/uuid"
)

// ══════════════════════════════════════════════════════════════════════════════
// CREATE CLASSROOM COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// codeRetryLimit bounds join code regeneration on collision. With a 36^6
// space a second collision in a row already means something is wrong.
const codeRetryLimit = 5

// RoleChecker loads a caller and enforces a role gate. Implemented by the
// identity service; commands receive caller identity explicitly and never
// reach into an ambient session.
type RoleChecker interface {
	RequireTeacher(ctx context.Context, userID string) (*user.User, error)
	RequireStudent(ctx context.Context, userID string) (*user.User, error)
}

// CreateClassroomCommand contains the data to create a classroom.
type CreateClassroomCommand struct {
	// TeacherID is the caller; must hold the teacher role.
	TeacherID string

	// Name is the classroom display name.
	Name string
}

// Validate validates the command.
func (c CreateClassroomCommand) Validate() error {
	if c.TeacherID == "" {
		return errors.New("create_classroom: teacher_id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("create_classroom: name is required")
	}
	return nil
}

// CreateClassroomHandler handles the CreateClassroomCommand.
type CreateClassroomHandler struct {
	roles          RoleChecker
	classroomRepo  classroom.Repository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewCreateClassroomHandler creates a new CreateClassroomHandler.
func NewCreateClassroomHandler(
	roles RoleChecker,
	classroomRepo classroom.Repository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *CreateClassroomHandler {
	return &CreateClassroomHandler{
		roles:          roles,
		classroomRepo:  classroomRepo,
		eventPublisher: eventPublisher,
		log:            log.With(logger.Component("create_classroom")),
	}
}

// Handle executes the create classroom command. Join code collisions are
// retried with a fresh code.
func (h *CreateClassroomHandler) Handle(ctx context.Context, cmd CreateClassroomCommand) (*classroom.Classroom, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("create_classroom: validation failed: %w", err)
	}

	caller, err := h.roles.RequireTeacher(ctx, cmd.TeacherID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < codeRetryLimit; attempt++ {
		c := &classroom.Classroom{
			ID:        uuid.New().String(),
			TeacherID: caller.ID,
			Name:      strings.TrimSpace(cmd.Name),
			Code:      classroom.NewCode(),
			CreatedAt: timeutil.Now(),
		}

		err := h.classroomRepo.Create(ctx, c)
		if errors.Is(err, shared.ErrAlreadyExists) {
			h.log.Warn("join code collision, regenerating",
				logger.TeacherID(caller.ID),
				logger.Int("attempt", attempt+1),
			)
			continue
		}
		if err != nil {
			return nil, err
		}

		_ = h.eventPublisher.Publish(shared.NewClassroomCreatedEvent(c.ID, c.TeacherID, c.Name))

		h.log.Info("classroom created",
			logger.ClassroomID(c.ID),
			logger.TeacherID(caller.ID),
			logger.String("code", c.Code.String()),
		)

		return c, nil
	}

	return nil, shared.NewDomainError("classroom", "Create", shared.ErrExternalService, "could not allocate a unique join code")
}
