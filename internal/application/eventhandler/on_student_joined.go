package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/feed"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/internal/domain/user"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON STUDENT JOINED HANDLER
// Tells the owning teacher a student joined. Fires only on first join; repeat
// joins are absorbed by the command and publish nothing.
// ═══════════════════════════════════════════════════════════════════════════

// OnStudentJoinedHandler handles the student joined event.
type OnStudentJoinedHandler struct {
	classroomRepo    classroom.Repository
	userRepo         user.Repository
	notificationRepo feed.NotificationRepository
	logger           *slog.Logger
}

// NewOnStudentJoinedHandler creates a new handler.
func NewOnStudentJoinedHandler(
	classroomRepo classroom.Repository,
	userRepo user.Repository,
	notificationRepo feed.NotificationRepository,
	logger *slog.Logger,
) *OnStudentJoinedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnStudentJoinedHandler{
		classroomRepo:    classroomRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		logger:           logger.With("handler", "on_student_joined"),
	}
}

// Handle implements shared.EventHandler.
func (h *OnStudentJoinedHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	e, ok := event.(shared.StudentJoinedEvent)
	if !ok {
		h.logger.Warn("received non-StudentJoinedEvent", "event_type", event.EventType())
		return nil
	}

	room, err := h.classroomRepo.GetByID(ctx, e.ClassroomID)
	if err != nil {
		return fmt.Errorf("get classroom: %w", err)
	}
	student, err := h.userRepo.GetByID(ctx, e.StudentID)
	if err != nil {
		return fmt.Errorf("get student: %w", err)
	}

	n := &feed.Notification{
		ID:          generateID(),
		UserID:      room.TeacherID,
		Title:       student.Name + " joined " + room.Name,
		ClassroomID: room.ID,
		CreatedAt:   e.OccurredAt(),
	}
	if err := h.notificationRepo.Append(ctx, n); err != nil {
		return fmt.Errorf("append notification: %w", err)
	}

	h.logger.Info("join notification sent",
		"classroom_id", room.ID,
		"student_id", e.StudentID,
	)
	return nil
}

// EventType returns the event type this handler processes.
func (h *OnStudentJoinedHandler) EventType() shared.EventType {
	return shared.EventStudentJoined
}
