package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/feed"
	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/pkg/timeutil"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON ASSIGNMENT CREATED HANDLER
// Fans a new assignment out to the classroom: one class-audience stream post
// and one notification per member. Submission rows already exist by the time
// this runs; the creating command seeds them before publishing.
// ═══════════════════════════════════════════════════════════════════════════

// OnAssignmentCreatedHandler handles the assignment created event.
type OnAssignmentCreatedHandler struct {
	classroomRepo    classroom.Repository
	streamRepo       feed.StreamRepository
	notificationRepo feed.NotificationRepository
	logger           *slog.Logger
}

// NewOnAssignmentCreatedHandler creates a new handler.
func NewOnAssignmentCreatedHandler(
	classroomRepo classroom.Repository,
	streamRepo feed.StreamRepository,
	notificationRepo feed.NotificationRepository,
	logger *slog.Logger,
) *OnAssignmentCreatedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnAssignmentCreatedHandler{
		classroomRepo:    classroomRepo,
		streamRepo:       streamRepo,
		notificationRepo: notificationRepo,
		logger:           logger.With("handler", "on_assignment_created"),
	}
}

// Handle implements shared.EventHandler.
func (h *OnAssignmentCreatedHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	e, ok := event.(shared.AssignmentCreatedEvent)
	if !ok {
		h.logger.Warn("received non-AssignmentCreatedEvent", "event_type", event.EventType())
		return nil
	}

	title := "New assignment: " + lessonKey(e.LessonLang, e.LessonID)
	body := e.Note
	if !e.DueDate.IsZero() {
		due := "Due " + timeutil.FormatRelativeDay(e.DueDate)
		if body != "" {
			body += "\n"
		}
		body += due
	}

	post := &feed.StreamPost{
		ID:          generateID(),
		ClassroomID: e.ClassroomID,
		AuthorID:    e.TeacherID,
		Kind:        feed.KindAssignment,
		Title:       title,
		Body:        body,
		Audience:    feed.AudienceClass,
		CreatedAt:   e.OccurredAt(),
	}
	if err := h.streamRepo.Append(ctx, post); err != nil {
		return fmt.Errorf("append stream post: %w", err)
	}

	memberIDs, err := h.classroomRepo.MemberIDs(ctx, e.ClassroomID)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}

	for _, studentID := range memberIDs {
		n := &feed.Notification{
			ID:          generateID(),
			UserID:      studentID,
			Title:       title,
			Body:        e.ClassroomName,
			ClassroomID: e.ClassroomID,
			CreatedAt:   e.OccurredAt(),
		}
		if err := h.notificationRepo.Append(ctx, n); err != nil {
			h.logger.Error("failed to notify member",
				"student_id", studentID,
				"assignment_id", e.AssignmentID,
				"error", err,
			)
		}
	}

	h.logger.Info("assignment fan-out complete",
		"assignment_id", e.AssignmentID,
		"classroom_id", e.ClassroomID,
		"members", len(memberIDs),
	)
	return nil
}

// EventType returns the event type this handler processes.
func (h *OnAssignmentCreatedHandler) EventType() shared.EventType {
	return shared.EventAssignmentCreated
}
