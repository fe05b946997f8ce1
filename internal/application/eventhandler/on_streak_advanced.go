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
// ON STREAK ADVANCED HANDLER
// Congratulates a student when the daily streak hits a milestone. Plain
// day-over-day growth stays quiet; a notification for every single day would
// train students to ignore the bell.
// ═══════════════════════════════════════════════════════════════════════════

// StreakAdvancedConfig contains the handler configuration.
type StreakAdvancedConfig struct {
	// Milestones are the streak lengths that earn a notification.
	Milestones []int
}

// DefaultStreakAdvancedConfig returns the default configuration.
func DefaultStreakAdvancedConfig() StreakAdvancedConfig {
	return StreakAdvancedConfig{
		Milestones: []int{3, 7, 14, 30, 100},
	}
}

// OnStreakAdvancedHandler handles the streak advanced event.
type OnStreakAdvancedHandler struct {
	notificationRepo feed.NotificationRepository
	logger           *slog.Logger
	config           StreakAdvancedConfig
}

// NewOnStreakAdvancedHandler creates a new handler.
func NewOnStreakAdvancedHandler(
	notificationRepo feed.NotificationRepository,
	logger *slog.Logger,
	config StreakAdvancedConfig,
) *OnStreakAdvancedHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OnStreakAdvancedHandler{
		notificationRepo: notificationRepo,
		logger:           logger.With("handler", "on_streak_advanced"),
		config:           config,
	}
}

// Handle implements shared.EventHandler.
func (h *OnStreakAdvancedHandler) Handle(event shared.Event) error {
	ctx := context.Background()

	e, ok := event.(shared.StreakAdvancedEvent)
	if !ok {
		h.logger.Warn("received non-StreakAdvancedEvent", "event_type", event.EventType())
		return nil
	}

	milestone := false
	for _, m := range h.config.Milestones {
		if e.StreakCount == m {
			milestone = true
			break
		}
	}
	if !milestone {
		return nil
	}

	n := &feed.Notification{
		ID:        generateID(),
		UserID:    e.StudentID,
		Title:     strconv.Itoa(e.StreakCount) + " day streak!",
		Body:      "You have passed a quiz " + strconv.Itoa(e.StreakCount) + " days in a row. Keep it going.",
		CreatedAt: e.OccurredAt(),
	}
	if err := h.notificationRepo.Append(ctx, n); err != nil {
		return fmt.Errorf("append notification: %w", err)
	}

	h.logger.Info("streak milestone notification sent",
		"student_id", e.StudentID,
		"streak", e.StreakCount,
	)
	return nil
}

// EventType returns the event type this handler processes.
func (h *OnStreakAdvancedHandler) EventType() shared.EventType {
	return shared.EventStreakAdvanced
}
