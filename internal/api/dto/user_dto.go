package dto

import (
	"time"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// UserUpdateRequest payload for the admin user-update endpoint.
type UserUpdateRequest struct {
	Email  string   `json:"email"`
	Role   string   `json:"role"`
	Skills []string `json:"skills"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Skills    []string  `json:"skills"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user to its public view.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		Skills:    u.Skills,
		CreatedAt: u.CreatedAt,
	}
}
