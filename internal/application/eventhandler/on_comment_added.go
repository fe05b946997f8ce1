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
// ON COMMENT ADDED HANDLER
// Notifies the other party of a submission thread: a student comment goes to
// the owning teacher, a teacher reply goes to the thread's student. Threads
// are private, so nothing is posted to the stream.
// ═══════════════════════════════════════════════════════════════════════════

// OnCommentAddedHandler handles the comment added event.
type OnCommentAddedHandler struct {
	classroomRepo    classroom.Repository
	userRepo         user.Repository
	notificationRepo feed.NotificationRepository
	logger           *slog.Logger
}

// NewOnCommentAddedHandler creates a new handler.
func NewOnCommentAddedHandler(
	classroomRepo classroom.Repository,
	userRepo user.Repository,
	notificationRepo feed.NotificationRepository,
	logger *slog.Logger,
) *OnCommentAddedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnCommentAddedHandler{
		classroomRepo:    classroomRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		logger:           logger.With("handler", "on_comment_added"),
	}
}

// Handle implements shared.EventHandler.
func (h *OnCommentAddedHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	e, ok := event.(shared.CommentAddedEvent)
	if !ok {
		h.logger.Warn("received non-CommentAddedEvent", "event_type", event.EventType())
		return nil
	}

	key := lessonKey(e.LessonLang, e.LessonID)

	var n *feed.Notification
	if e.AuthorRole == user.RoleTeacher.String() {
		n = &feed.Notification{
			ID:          generateID(),
			UserID:      e.StudentID,
			Title:       "Teacher replied",
			Body:        key,
			ClassroomID: e.ClassroomID,
			CreatedAt:   e.OccurredAt(),
		}
	} else {
		room, err := h.classroomRepo.GetByID(ctx, e.ClassroomID)
		if err != nil {
			return fmt.Errorf("get classroom: %w", err)
		}
		author, err := h.userRepo.GetByID(ctx, e.AuthorID)
		if err != nil {
			return fmt.Errorf("get author: %w", err)
		}
		n = &feed.Notification{
			ID:          generateID(),
			UserID:      room.TeacherID,
			Title:       "New student comment",
			Body:        author.Name + " on " + key,
			ClassroomID: e.ClassroomID,
			CreatedAt:   e.OccurredAt(),
		}
	}

	if err := h.notificationRepo.Append(ctx, n); err != nil {
		return fmt.Errorf("append notification: %w", err)
	}

	h.logger.Info("comment notification sent",
		"assignment_id", e.AssignmentID,
		"author_role", e.AuthorRole,
	)
	return nil
}

// EventType returns the event type this handler processes.
func (h *OnCommentAddedHandler) EventType() shared.EventType {
	return shared.EventCommentAdded
}
