// Package user contains the identity model for CodeCourse. The core treats
// role as an opaque gate: it never mutates identity except for the streak
// fields, which belong to the progress tracker.
package user

import (
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Role determines what a user can do: students take lessons and join
// classrooms, teachers own classrooms and grade, admins manage content.
type Role string

const (
	// RoleStudent - consumes lessons, takes quizzes, joins classrooms.
	RoleStudent Role = "Student"
	// RoleTeacher - owns classrooms, creates assignments, grades submissions.
	RoleTeacher Role = "Teacher"
	// RoleAdmin - manages lesson content; outside the classroom core.
	RoleAdmin Role = "Admin"
)

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.Title(strings.ToLower(strings.TrimSpace(s))))
	return r, r.IsValid()
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: USER
// ══════════════════════════════════════════════════════════════════════════════

// User represents an account in the system.
//
// StreakCount and LastActiveDate are the only fields the classroom core
// mutates; everything else belongs to the identity collaborator.
type User struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// Name - display name shown in classrooms and feeds.
	Name string

	// Username - unique login handle.
	Username string

	// Email - unique email address.
	Email string

	// PasswordHash - bcrypt hash; never the plain password.
	PasswordHash string

	// Role - Student, Teacher, or Admin.
	Role Role

	// Avatar - avatar identifier chosen at signup.
	Avatar string

	// StreakCount - consecutive calendar days with a passing quiz.
	StreakCount int

	// LastActiveDate - start of the last day a passing quiz was recorded.
	// Zero means the student has never passed a quiz.
	LastActiveDate time.Time

	// CreatedAt - when the account was created.
	CreatedAt time.Time
}

// IsStudent reports whether the user is a student.
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// IsTeacher reports whether the user is a teacher.
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }

// Validate checks entity invariants.
func (u *User) Validate() error {
	if u.ID == "" {
		return ErrMissingID
	}
	if strings.TrimSpace(u.Name) == "" || strings.TrimSpace(u.Username) == "" {
		return ErrMissingName
	}
	if !u.Role.IsValid() {
		return ErrUnknownRole
	}
	return nil
}
