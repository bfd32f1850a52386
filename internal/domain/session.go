package domain

import "time"

// Session binds an opaque identifier to a user until ExpiresAt.
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SessionInfo is what an authenticated request learns about its caller.
type SessionInfo struct {
	UserID   int64
	Username string
	Role     Role
}
