package postgres

import (
	"context"
	"fmt"

	"github.com/codeformaine/codecourse/internal/domain/feed"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// NotificationRepository implements feed.NotificationRepository for
// PostgreSQL.
type NotificationRepository struct {
	conn *Connection
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(conn *Connection) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

// Append stores a new notification.
func (r *NotificationRepository) Append(ctx context.Context, n *feed.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO notifications (id, user_id, title, body, classroom_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var classroomID *string
	if n.ClassroomID != "" {
		classroomID = &n.ClassroomID
	}

	_, err := r.conn.Exec(ctx, query,
		n.ID,
		n.UserID,
		n.Title,
		n.Body,
		classroomID,
		n.IsRead,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append notification: %w", err)
	}

	return nil
}

// Unread returns the user's unread notifications, newest first.
func (r *NotificationRepository) Unread(ctx context.Context, userID string, limit int) ([]*feed.Notification, error) {
	query := `
		SELECT id, user_id, title, body, classroom_id, is_read, created_at
		FROM notifications
		WHERE user_id = $1 AND is_read = FALSE
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unread notifications: %w", err)
	}
	defer rows.Close()

	return scanNotifications(rows)
}

// MarkAllRead flips every unread notification for the user in one bulk
// update and returns how many rows changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result, err := r.conn.Exec(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE",
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return result.RowsAffected(), nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STREAM REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StreamRepository implements feed.StreamRepository for PostgreSQL.
type StreamRepository struct {
	conn *Connection
}

// NewStreamRepository creates a new StreamRepository.
func NewStreamRepository(conn *Connection) *StreamRepository {
	return &StreamRepository{conn: conn}
}

// Append stores a new stream post.
func (r *StreamRepository) Append(ctx context.Context, p *feed.StreamPost) error {
	if err := p.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO stream_posts (id, classroom_id, author_id, kind, title, body, audience, student_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	var studentID *string
	if p.StudentID != "" {
		studentID = &p.StudentID
	}

	_, err := r.conn.Exec(ctx, query,
		p.ID,
		p.ClassroomID,
		p.AuthorID,
		string(p.Kind),
		p.Title,
		p.Body,
		string(p.Audience),
		studentID,
		p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append stream post: %w", err)
	}

	return nil
}

// ClassroomFeed returns a classroom's posts, newest first. Teacher view:
// every audience, every kind.
func (r *StreamRepository) ClassroomFeed(ctx context.Context, classroomID string, limit int) ([]*feed.StreamPost, error) {
	query := `
		SELECT id, classroom_id, author_id, kind, title, body, audience, student_id, created_at
		FROM stream_posts
		WHERE classroom_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, classroomID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query classroom feed: %w", err)
	}
	defer rows.Close()

	return scanStreamPosts(rows)
}

// StudentFeed returns class-audience posts across the given classrooms plus
// student-audience posts addressed to the student. Class-audience grade
// posts are excluded so that marks never leak through a shared channel.
func (r *StreamRepository) StudentFeed(ctx context.Context, classroomIDs []string, studentID string, limit int) ([]*feed.StreamPost, error) {
	if len(classroomIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, classroom_id, author_id, kind, title, body, audience, student_id, created_at
		FROM stream_posts
		WHERE classroom_id = ANY($1)
		  AND (
		       (audience = 'class' AND kind <> 'grade')
		    OR (audience = 'student' AND student_id = $2)
		  )
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.conn.Query(ctx, query, classroomIDs, studentID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query student feed: %w", err)
	}
	defer rows.Close()

	return scanStreamPosts(rows)
}

// ══════════════════════════════════════════════════════════════════════════════
// REACH OUT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ReachOutRepository implements feed.ReachOutRepository for PostgreSQL.
type ReachOutRepository struct {
	conn *Connection
}

// NewReachOutRepository creates a new ReachOutRepository.
func NewReachOutRepository(conn *Connection) *ReachOutRepository {
	return &ReachOutRepository{conn: conn}
}

// Log stores a reach-out record.
func (r *ReachOutRepository) Log(ctx context.Context, ro *feed.ReachOut) error {
	query := `
		INSERT INTO reach_out_messages (teacher_id, student_id, message, sent_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn.Exec(ctx, query, ro.TeacherID, ro.StudentID, ro.Message, ro.SentAt)
	if err != nil {
		return fmt.Errorf("failed to log reach out: %w", err)
	}

	return nil
}

// ListForStudent returns the outreach a student has received, newest first.
func (r *ReachOutRepository) ListForStudent(ctx context.Context, studentID string) ([]*feed.ReachOut, error) {
	query := `
		SELECT teacher_id, student_id, message, sent_at
		FROM reach_out_messages
		WHERE student_id = $1
		ORDER BY sent_at DESC
	`

	rows, err := r.conn.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reach outs: %w", err)
	}
	defer rows.Close()

	var reachOuts []*feed.ReachOut
	for rows.Next() {
		var ro feed.ReachOut
		if err := rows.Scan(&ro.TeacherID, &ro.StudentID, &ro.Message, &ro.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan reach out: %w", err)
		}
		reachOuts = append(reachOuts, &ro)
	}

	return reachOuts, rows.Err()
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER METHODS
// ══════════════════════════════════════════════════════════════════════════════

func scanNotifications(rows pgx.Rows) ([]*feed.Notification, error) {
	var notifications []*feed.Notification

	for rows.Next() {
		var n feed.Notification
		var classroomID *string

		err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &classroomID, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}

		if classroomID != nil {
			n.ClassroomID = *classroomID
		}

		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return notifications, nil
}

func scanStreamPosts(rows pgx.Rows) ([]*feed.StreamPost, error) {
	var posts []*feed.StreamPost

	for rows.Next() {
		var p feed.StreamPost
		var kind, audience string
		var studentID *string

		err := rows.Scan(&p.ID, &p.ClassroomID, &p.AuthorID, &kind, &p.Title, &p.Body, &audience, &studentID, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan stream post: %w", err)
		}

		p.Kind = feed.Kind(kind)
		p.Audience = feed.Audience(audience)
		if studentID != nil {
			p.StudentID = *studentID
		}

		posts = append(posts, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return posts, nil
}
