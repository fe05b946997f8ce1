// Package shared contains common domain types, errors, and events that are
// used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// External service errors
	ErrExternalService = errors.New("external service error")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "classroom", "assignment", "progress"
	Op      string // Operation that failed, e.g., "Create", "Reconcile"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// User domain errors
var (
	ErrUserNotFound      = NewDomainError("user", "Find", ErrNotFound, "user not found")
	ErrUserAlreadyExists = NewDomainError("user", "Create", ErrAlreadyExists, "user already exists")
	ErrInvalidRole       = NewDomainError("user", "Validate", ErrInvalidInput, "invalid role")
	ErrNotTeacher        = NewDomainError("user", "RequireRole", ErrForbidden, "caller is not a teacher")
	ErrNotStudent        = NewDomainError("user", "RequireRole", ErrForbidden, "caller is not a student")
)

// Classroom domain errors
var (
	ErrClassroomNotFound = NewDomainError("classroom", "Find", ErrNotFound, "classroom not found")
	ErrCodeNotFound      = NewDomainError("classroom", "FindByCode", ErrNotFound, "classroom code not found")
	ErrCodeTaken         = NewDomainError("classroom", "Create", ErrAlreadyExists, "classroom code already taken")
	ErrInvalidCode       = NewDomainError("classroom", "Validate", ErrInvalidFormat, "invalid classroom code")
	ErrNotClassroomOwner = NewDomainError("classroom", "Authorize", ErrForbidden, "caller does not own this classroom")
)

// Assignment domain errors
var (
	ErrAssignmentNotFound = NewDomainError("assignment", "Find", ErrNotFound, "assignment not found")
	ErrSubmissionNotFound = NewDomainError("assignment", "FindSubmission", ErrNotFound, "submission not found")
	ErrGradeOutOfRange    = NewDomainError("assignment", "Grade", ErrValueOutOfRange, "grade must be between 0 and 10")
)

// Progress domain errors
var (
	ErrLessonNotFound = NewDomainError("progress", "Lookup", ErrNotFound, "lesson not found")
	ErrInvalidScore   = NewDomainError("progress", "Validate", ErrValueOutOfRange, "score must be between 0 and 100")
)

// Feed domain errors
var (
	ErrInvalidAudience = NewDomainError("feed", "Validate", ErrInvalidInput, "student-scoped posts require a student id")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsForbidden checks if the error is an authorization failure.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) || errors.Is(err, ErrUnauthorized)
}
