package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/codeformaine/codecourse/internal/domain/feed"
	"github.com/codeformaine/codecourse/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK NOTIFICATIONS READ COMMAND
// One bulk flip of everything unread for the caller. There is no per-item
// read state; the badge clears as a whole.
// ══════════════════════════════════════════════════════════════════════════════

// MarkNotificationsReadCommand contains the request.
type MarkNotificationsReadCommand struct {
	// UserID is the caller; only their own notifications are affected.
	UserID string
}

// Validate validates the command.
func (c MarkNotificationsReadCommand) Validate() error {
	if c.UserID == "" {
		return errors.New("mark_notifications_read: user_id is required")
	}
	return nil
}

// MarkNotificationsReadHandler handles the MarkNotificationsReadCommand.
type MarkNotificationsReadHandler struct {
	notificationRepo feed.NotificationRepository
	log              *logger.Logger
}

// NewMarkNotificationsReadHandler creates a new handler.
func NewMarkNotificationsReadHandler(notificationRepo feed.NotificationRepository, log *logger.Logger) *MarkNotificationsReadHandler {
	return &MarkNotificationsReadHandler{
		notificationRepo: notificationRepo,
		log:              log.With(logger.Component("mark_notifications_read")),
	}
}

// Handle executes the command and returns how many notifications flipped.
func (h *MarkNotificationsReadHandler) Handle(ctx context.Context, cmd MarkNotificationsReadCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, fmt.Errorf("mark_notifications_read: validation failed: %w", err)
	}

	count, err := h.notificationRepo.MarkAllRead(ctx, cmd.UserID)
	if err != nil {
		return 0, fmt.Errorf("mark_notifications_read: %w", err)
	}

	if count > 0 {
		h.log.Debug("notifications marked read",
			logger.UserID(cmd.UserID),
			logger.Int64("count", count),
		)
	}

	return count, nil
}
