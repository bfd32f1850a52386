package domain

import "time"

// Role enumerates what a user may do in the admin area.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// CanWrite reports whether the role may mutate content.
func (r Role) CanWrite() bool {
	return r == RoleAdmin || r == RoleEditor
}

// User represents an account of the blog's admin area.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	LastLogin    *time.Time
	CreatedAt    time.Time
}

// Summary strips the password hash.
func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// UserSummary is the public-safe projection of a User.
type UserSummary struct {
	ID       int64
	Username string
	Email    string
	Role     Role
}
