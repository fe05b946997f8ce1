package feed

import (
	"context"
	"errors"
)

// Entity validation errors.
var (
	ErrMissingAddressee   = errors.New("feed: notification missing id or user id")
	ErrMissingTitle       = errors.New("feed: notification missing title")
	ErrMissingScope       = errors.New("feed: post missing id, classroom, or author")
	ErrUnknownKind        = errors.New("feed: unknown post kind")
	ErrUnknownAudience    = errors.New("feed: unknown post audience")
	ErrMissingStudent     = errors.New("feed: student-scoped post missing student id")
	ErrStudentOnClassPost = errors.New("feed: class-scoped post must not carry a student id")
)

// NotificationRepository persists per-user notifications.
type NotificationRepository interface {
	// Append stores a new notification.
	Append(ctx context.Context, n *Notification) error

	// Unread returns the user's unread notifications, newest first,
	// capped at limit.
	Unread(ctx context.Context, userID string, limit int) ([]*Notification, error)

	// MarkAllRead flips every unread notification for the user in one
	// unconditional bulk update and returns how many rows changed.
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// ReachOutRepository logs direct teacher outreach.
type ReachOutRepository interface {
	// Log stores a reach-out record.
	Log(ctx context.Context, ro *ReachOut) error

	// ListForStudent returns the outreach a student has received,
	// newest first.
	ListForStudent(ctx context.Context, studentID string) ([]*ReachOut, error)
}

// StreamRepository persists classroom stream posts.
type StreamRepository interface {
	// Append stores a new stream post.
	Append(ctx context.Context, p *StreamPost) error

	// ClassroomFeed returns a classroom's posts, newest first, capped at
	// limit. This is the teacher view: every audience, every kind.
	ClassroomFeed(ctx context.Context, classroomID string, limit int) ([]*StreamPost, error)

	// StudentFeed returns the union of class-audience posts across the given
	// classrooms and student-audience posts addressed to the student,
	// excluding class-audience grade posts, newest first, capped at limit.
	StudentFeed(ctx context.Context, classroomIDs []string, studentID string, limit int) ([]*StreamPost, error)
}
