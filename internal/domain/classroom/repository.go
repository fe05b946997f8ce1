package classroom

import (
	"context"
	"errors"
)

// Entity validation errors.
var (
	ErrMissingOwner = errors.New("classroom: missing id or teacher id")
	ErrMissingName  = errors.New("classroom: missing name")
	ErrBadCode      = errors.New("classroom: malformed join code")
)

// Repository defines persistence operations for classrooms and memberships.
type Repository interface {
	// Create inserts a new classroom. Returns a duplicate error if the join
	// code collides; callers regenerate and retry.
	Create(ctx context.Context, c *Classroom) error

	// GetByID returns a classroom by ID.
	GetByID(ctx context.Context, id string) (*Classroom, error)

	// GetByCode returns a classroom by its join code.
	GetByCode(ctx context.Context, code Code) (*Classroom, error)

	// ListByTeacher returns the classrooms a teacher owns, newest first.
	ListByTeacher(ctx context.Context, teacherID string) ([]*Classroom, error)

	// Delete removes a classroom and cascades to memberships, assignments,
	// submissions, invites, and classroom-scoped notifications.
	Delete(ctx context.Context, id string) error

	// AddMember inserts a membership if absent. Returns added=false with no
	// error when the student is already a member; uniqueness is enforced at
	// the store level so two concurrent joins cannot both insert.
	AddMember(ctx context.Context, m *Membership) (added bool, err error)

	// MemberIDs returns the student IDs of all current members.
	MemberIDs(ctx context.Context, classroomID string) ([]string, error)

	// IsMember reports whether a student belongs to a classroom.
	IsMember(ctx context.Context, classroomID, studentID string) (bool, error)

	// ListForStudent returns the classrooms a student has joined.
	ListForStudent(ctx context.Context, studentID string) ([]*Classroom, error)

	// SaveInvite stores an invite bookmark for a classroom.
	SaveInvite(ctx context.Context, inv *Invite) error

	// ListInvites returns the invites for a classroom, newest first.
	ListInvites(ctx context.Context, classroomID string) ([]*Invite, error)
}
