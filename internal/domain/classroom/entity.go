// Package classroom contains classrooms, join codes, and memberships.
package classroom

import (
	"crypto/rand"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOIN CODE
// ══════════════════════════════════════════════════════════════════════════════

// codeAlphabet is the character set for join codes: uppercase letters and
// digits, matching what students type in from a whiteboard or a share link.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the fixed length of a classroom join code.
const CodeLength = 6

// Code is a classroom join code, e.g. "AB12CD". Codes are unique across all
// classrooms and case-insensitive on input.
type Code string

// NewCode generates a random join code.
func NewCode() Code {
	buf := make([]byte, CodeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the host is broken; fall back to a
		// constant-free panic rather than handing out predictable codes.
		panic("classroom: crypto/rand unavailable: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return Code(buf)
}

// NormalizeCode upper-cases and trims a user-typed code.
func NormalizeCode(s string) Code {
	return Code(strings.ToUpper(strings.TrimSpace(s)))
}

// IsValid reports whether the code has the expected shape.
func (c Code) IsValid() bool {
	if len(c) != CodeLength {
		return false
	}
	for _, r := range c {
		if !strings.ContainsRune(codeAlphabet, r) {
			return false
		}
	}
	return true
}

// String returns the string representation of the code.
func (c Code) String() string {
	return string(c)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Classroom is owned by exactly one teacher.
type Classroom struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// TeacherID - the owning teacher. Only this teacher may create
	// assignments, announce, grade, or delete the classroom.
	TeacherID string

	// Name - display name shown to members.
	Name string

	// Code - unique join code.
	Code Code

	// CreatedAt - when the classroom was created.
	CreatedAt time.Time
}

// OwnedBy reports whether the given teacher owns this classroom.
func (c *Classroom) OwnedBy(teacherID string) bool {
	return c.TeacherID == teacherID
}

// Validate checks entity invariants.
func (c *Classroom) Validate() error {
	if c.ID == "" || c.TeacherID == "" {
		return ErrMissingOwner
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrMissingName
	}
	if !c.Code.IsValid() {
		return ErrBadCode
	}
	return nil
}

// Membership records that a student joined a classroom. The pair is unique;
// joining twice is absorbed silently. Memberships are only removed by the
// classroom deletion cascade.
type Membership struct {
	ClassroomID string
	StudentID   string
	JoinedAt    time.Time
}

// Invite is a bookmark that a teacher intends a student (by email) to join.
// It carries no delivery guarantee; the join still happens by code.
type Invite struct {
	ClassroomID string
	Email       string
	InvitedAt   time.Time
}
