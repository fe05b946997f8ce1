package user

import (
	"context"
	"errors"
)

// Entity validation errors.
var (
	ErrMissingID   = errors.New("user: missing id")
	ErrMissingName = errors.New("user: missing name or username")
	ErrUnknownRole = errors.New("user: unknown role")
)

// Repository defines persistence operations for users.
// The classroom core only reads users and updates streak fields; account
// creation lives here because the identity service shares the table.
type Repository interface {
	// Create inserts a new user. Returns a duplicate error if the username
	// or email is already taken (store-level uniqueness).
	Create(ctx context.Context, u *User) error

	// GetByID returns a user by internal ID.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByUsername returns a user by login handle.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// GetByEmail returns a user by email.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
