package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codeformaine/codecourse/internal/domain/feed"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET UNREAD NOTIFICATIONS QUERY
// The bell badge: a short preview of the newest unread notifications.
// ══════════════════════════════════════════════════════════════════════════════

// GetUnreadNotificationsQuery contains the request parameters.
type GetUnreadNotificationsQuery struct {
	// UserID is whose notifications to preview.
	UserID string

	// Limit caps the preview (default: feed.UnreadPreview).
	Limit int
}

// Validate validates the query and applies defaults.
func (q *GetUnreadNotificationsQuery) Validate() error {
	if q.UserID == "" {
		return errors.New("get_unread_notifications: user_id is required")
	}
	if q.Limit <= 0 {
		q.Limit = feed.UnreadPreview
	}
	return nil
}

// NotificationDTO is one notification for API responses.
type NotificationDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Body        string    `json:"body,omitempty"`
	ClassroomID string    `json:"classroom_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// GetUnreadNotificationsHandler handles the query.
type GetUnreadNotificationsHandler struct {
	notificationRepo feed.NotificationRepository
}

// NewGetUnreadNotificationsHandler creates a new handler.
func NewGetUnreadNotificationsHandler(notificationRepo feed.NotificationRepository) *GetUnreadNotificationsHandler {
	return &GetUnreadNotificationsHandler{notificationRepo: notificationRepo}
}

// Handle executes the query.
func (h *GetUnreadNotificationsHandler) Handle(ctx context.Context, q GetUnreadNotificationsQuery) ([]NotificationDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	items, err := h.notificationRepo.Unread(ctx, q.UserID, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("get_unread_notifications: failed to load notifications: %w", err)
	}

	dtos := make([]NotificationDTO, 0, len(items))
	for _, n := range items {
		dtos = append(dtos, NotificationDTO{
			ID:          n.ID,
			Title:       n.Title,
			Body:        n.Body,
			ClassroomID: n.ClassroomID,
			CreatedAt:   n.CreatedAt,
		})
	}
	return dtos, nil
}
