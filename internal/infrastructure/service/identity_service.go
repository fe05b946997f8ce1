// Package service contains infrastructure-backed collaborators for the
// classroom core: identity, the lesson catalog, and outbound mail.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/codeformaine/codecourse/internal/domain/shared"
	"github.com/codeformaine/codecourse/internal/domain/user"
	"github.com/codeformaine/codecourse/pkg/timeutil"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ══════════════════════════════════════════════════════════════════════════════
// IDENTITY SERVICE
// ══════════════════════════════════════════════════════════════════════════════

// IdentityService handles account creation, credential checks, and role
// gates. The classroom core receives caller identity explicitly on every
// operation; this service is where that identity comes from.
type IdentityService struct {
	users user.Repository
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(users user.Repository) *IdentityService {
	return &IdentityService{users: users}
}

// RegisterInput carries a signup request.
type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
	Role     user.Role
	Avatar   string
}

// Register creates a new account with a bcrypt password hash.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Username:     strings.ToLower(strings.TrimSpace(in.Username)),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         in.Role,
		Avatar:       in.Avatar,
		CreatedAt:    timeutil.Now(),
	}

	if err := u.Validate(); err != nil {
		return nil, shared.WrapError("user", "Register", shared.ErrValidation, "invalid signup", err)
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Login verifies credentials against the stored hash. The username field
// also accepts an email address.
func (s *IdentityService) Login(ctx context.Context, username, password string) (*user.User, error) {
	handle := strings.ToLower(strings.TrimSpace(username))

	u, err := s.users.GetByUsername(ctx, handle)
	if shared.IsNotFound(err) && strings.Contains(handle, "@") {
		u, err = s.users.GetByEmail(ctx, handle)
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, shared.NewDomainError("user", "Login", shared.ErrUnauthorized, "wrong password")
	}

	return u, nil
}

// RequireTeacher loads the caller and verifies the teacher role.
func (s *IdentityService) RequireTeacher(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsTeacher() {
		return nil, shared.ErrNotTeacher
	}
	return u, nil
}

// RequireStudent loads the caller and verifies the student role.
func (s *IdentityService) RequireStudent(ctx context.Context, userID string) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsStudent() {
		return nil, shared.ErrNotStudent
	}
	return u, nil
}
