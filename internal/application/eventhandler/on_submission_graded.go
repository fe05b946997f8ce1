package eventhandler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/codeformaine/codecourse/internal/domain/feed"
	"github.com/codeformaine/codecourse/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON SUBMISSION GRADED HANDLER
// Tells the graded student their mark. Grades are private: the stream post is
// student-audience, so classmates never see it, and the notification names
// the lesson but carries the grade only in the addressee's own feed.
// ═══════════════════════════════════════════════════════════════════════════

// OnSubmissionGradedHandler handles the submission graded event.
type OnSubmissionGradedHandler struct {
	streamRepo       feed.StreamRepository
	notificationRepo feed.NotificationRepository
	logger           *slog.Logger
}

// NewOnSubmissionGradedHandler creates a new handler.
func NewOnSubmissionGradedHandler(
	streamRepo feed.StreamRepository,
	notificationRepo feed.NotificationRepository,
	logger *slog.Logger,
) *OnSubmissionGradedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnSubmissionGradedHandler{
		streamRepo:       streamRepo,
		notificationRepo: notificationRepo,
		logger:           logger.With("handler", "on_submission_graded"),
	}
}

// Handle implements shared.EventHandler.
func (h *OnSubmissionGradedHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	e, ok := event.(shared.SubmissionGradedEvent)
	if !ok {
		h.logger.Warn("received non-SubmissionGradedEvent", "event_type", event.EventType())
		return nil
	}

	key := lessonKey(e.LessonLang, e.LessonID)
	body := key + ": " + strconv.Itoa(e.Grade) + "/10"

	post := &feed.StreamPost{
		ID:          generateID(),
		ClassroomID: e.ClassroomID,
		AuthorID:    e.TeacherID,
		Kind:        feed.KindGrade,
		Title:       "Your work was graded",
		Body:        body,
		Audience:    feed.AudienceStudent,
		StudentID:   e.StudentID,
		CreatedAt:   e.OccurredAt(),
	}
	if err := h.streamRepo.Append(ctx, post); err != nil {
		return fmt.Errorf("append grade post: %w", err)
	}

	n := &feed.Notification{
		ID:          generateID(),
		UserID:      e.StudentID,
		Title:       "Your work was graded",
		Body:        body,
		ClassroomID: e.ClassroomID,
		CreatedAt:   e.OccurredAt(),
	}
	if err := h.notificationRepo.Append(ctx, n); err != nil {
		return fmt.Errorf("append notification: %w", err)
	}

	h.logger.Info("grade fan-out complete",
		"submission_id", e.SubmissionID,
		"student_id", e.StudentID,
	)
	return nil
}

// EventType returns the event type this handler processes.
func (h *OnSubmissionGradedHandler) EventType() shared.EventType {
	return shared.EventSubmissionGraded
}
