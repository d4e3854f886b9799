package domain

import "time"

// Role enumerates account roles. Moderators are eligible for ticket
// assignment; admins are the routing fallback.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// User is the domain model for anyone holding an account, end-users and
// moderators alike.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
	Skills       []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
