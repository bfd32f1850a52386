package repository

import (
	"context"
	"time"

	"inkpress/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	TouchLastLogin(ctx context.Context, id int64, at time.Time) error
	Count(ctx context.Context) (int64, error)
}

// SessionRepository stores login sessions. Expiry is evaluated against the
// supplied instant so callers own the clock.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetActive(ctx context.Context, id string, now time.Time) (*domain.SessionInfo, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
