package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codeformaine/codecourse/internal/domain/classroom"
	"github.com/codeformaine/codecourse/internal/domain/feed"
	"github.com/codeformaine/codecourse/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ON ANNOUNCEMENT POSTED HANDLER
// Puts a teacher announcement on the classroom stream and notifies every
// member.
// ═══════════════════════════════════════════════════════════════════════════

// OnAnnouncementPostedHandler handles the announcement posted event.
type OnAnnouncementPostedHandler struct {
	classroomRepo    classroom.Repository
	streamRepo       feed.StreamRepository
	notificationRepo feed.NotificationRepository
	logger           *slog.Logger
}

// NewOnAnnouncementPostedHandler creates a new handler.
func NewOnAnnouncementPostedHandler(
	classroomRepo classroom.Repository,
	streamRepo feed.StreamRepository,
	notificationRepo feed.NotificationRepository,
	logger *slog.Logger,
) *OnAnnouncementPostedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnAnnouncementPostedHandler{
		classroomRepo:    classroomRepo,
		streamRepo:       streamRepo,
		notificationRepo: notificationRepo,
		logger:           logger.With("handler", "on_announcement_posted"),
	}
}

// Handle implements shared.EventHandler.
func (h *OnAnnouncementPostedHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	e, ok := event.(shared.AnnouncementPostedEvent)
	if !ok {
		h.logger.Warn("received non-AnnouncementPostedEvent", "event_type", event.EventType())
		return nil
	}

	post := &feed.StreamPost{
		ID:          generateID(),
		ClassroomID: e.ClassroomID,
		AuthorID:    e.TeacherID,
		Kind:        feed.KindAnnouncement,
		Title:       "Announcement",
		Body:        e.Message,
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
			Title:       "Announcement in " + e.ClassroomName,
			Body:        e.Message,
			ClassroomID: e.ClassroomID,
			CreatedAt:   e.OccurredAt(),
		}
		if err := h.notificationRepo.Append(ctx, n); err != nil {
			h.logger.Error("failed to notify member",
				"student_id", studentID,
				"classroom_id", e.ClassroomID,
				"error", err,
			)
		}
	}

	h.logger.Info("announcement fan-out complete",
		"classroom_id", e.ClassroomID,
		"members", len(memberIDs),
	)
	return nil
}

// EventType returns the event type this handler processes.
func (h *OnAnnouncementPostedHandler) EventType() shared.EventType {
	return shared.EventAnnouncementPosted
}
