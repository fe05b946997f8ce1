// Package feed contains notifications and the classroom stream.
//
// Both are append-only. Notifications are per-user and mutated only by the
// bulk mark-read operation. Stream posts are classroom-scoped with two
// audience channels: class-wide posts everyone sees, and student-scoped posts
// used for grades so marks stay private.
package feed

import (
	"strings"
	"time"
)

// Feed windows. Views are pull-based and bounded; there is no push delivery.
const (
	// StreamWindow - how many stream posts a feed view returns.
	StreamWindow = 30

	// UnreadPreview - how many notifications the unread badge shows.
	UnreadPreview = 3
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION
// ══════════════════════════════════════════════════════════════════════════════

// Notification is a write-once message addressed to a single user.
type Notification struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// UserID - the addressee.
	UserID string

	// Title / Body - display text.
	Title string
	Body  string

	// ClassroomID - optional classroom scope; empty when the notification is
	// not tied to a classroom. Classroom-scoped notifications die with the
	// classroom's deletion cascade.
	ClassroomID string

	// IsRead - flipped only by the bulk mark-read operation.
	IsRead bool

	// CreatedAt - when the notification was appended.
	CreatedAt time.Time
}

// Validate checks entity invariants.
func (n *Notification) Validate() error {
	if n.ID == "" || n.UserID == "" {
		return ErrMissingAddressee
	}
	if strings.TrimSpace(n.Title) == "" {
		return ErrMissingTitle
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STREAM POST
// ══════════════════════════════════════════════════════════════════════════════

// Kind classifies a stream post.
type Kind string

const (
	// KindAssignment - a new assignment was posted.
	KindAssignment Kind = "assignment"
	// KindAnnouncement - a teacher announcement.
	KindAnnouncement Kind = "announcement"
	// KindGrade - a grade was posted; always student-scoped in student views.
	KindGrade Kind = "grade"
)

// IsValid reports whether the kind is known.
func (k Kind) IsValid() bool {
	switch k {
	case KindAssignment, KindAnnouncement, KindGrade:
		return true
	default:
		return false
	}
}

// Audience selects who sees a stream post.
type Audience string

const (
	// AudienceClass - visible to every classroom member.
	AudienceClass Audience = "class"
	// AudienceStudent - visible only to the addressed student (and the
	// teacher's view of their own classroom).
	AudienceStudent Audience = "student"
)

// IsValid reports whether the audience is known.
func (a Audience) IsValid() bool {
	return a == AudienceClass || a == AudienceStudent
}

// StreamPost is one append-only entry in a classroom's feed.
type StreamPost struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// ClassroomID - the classroom this post belongs to.
	ClassroomID string

	// AuthorID - who posted (the teacher for all current kinds).
	AuthorID string

	// Kind - assignment, announcement, or grade.
	Kind Kind

	// Title / Body - display text.
	Title string
	Body  string

	// Audience - class or student channel.
	Audience Audience

	// StudentID - required when Audience is student, empty otherwise.
	StudentID string

	// CreatedAt - when the post was appended.
	CreatedAt time.Time
}

// Validate checks entity invariants, in particular that student-scoped posts
// carry an addressee.
func (p *StreamPost) Validate() error {
	if p.ID == "" || p.ClassroomID == "" || p.AuthorID == "" {
		return ErrMissingScope
	}
	if !p.Kind.IsValid() {
		return ErrUnknownKind
	}
	if !p.Audience.IsValid() {
		return ErrUnknownAudience
	}
	if p.Audience == AudienceStudent && p.StudentID == "" {
		return ErrMissingStudent
	}
	if p.Audience == AudienceClass && p.StudentID != "" {
		return ErrStudentOnClassPost
	}
	return nil
}

// ReachOut is a logged teacher-to-student message sent outside the stream,
// typically when a student has fallen behind. Delivery (email) is best
// effort; the log row is the record of the outreach.
type ReachOut struct {
	TeacherID string
	StudentID string
	Message   string
	SentAt    time.Time
}

// VisibleToStudent reports whether a post belongs in the given student's
// feed. Class-audience posts are visible unless they are grade posts (grades
// are private); student-audience posts only when addressed to the student.
func (p *StreamPost) VisibleToStudent(studentID string) bool {
	switch p.Audience {
	case AudienceClass:
		return p.Kind != KindGrade
	case AudienceStudent:
		return p.StudentID == studentID
	default:
		return false
	}
}
