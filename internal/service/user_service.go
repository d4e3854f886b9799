package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/repository"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// UserService exposes admin-facing user management.
type UserService struct {
	users repository.UserRepository
}

// NewUserService creates the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// ListUsers returns every account. Password hashes are stripped.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// UpdateUser changes a user's skills and role by email. Empty skills
// leave the stored skills untouched, mirroring the update endpoint's
// merge semantics.
func (s *UserService) UpdateUser(ctx context.Context, email string, skills []string, role domain.Role) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperrors.NewValidationError("email required", nil)
	}
	if !domain.ValidRole(role) {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": role})
	}

	if err := s.users.UpdateProfile(ctx, email, skills, role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"email": email})
		}
		return apperrors.MapError(err)
	}
	return nil
}
