package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inkpress/internal/domain"
	"inkpress/internal/repository"
)

type SessionRepository struct {
	db *sql.DB
}

func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO sessions (id, user_id, expires_at, created_at)
VALUES (?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert session: %w", repository.ErrConflict)
		}
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetActive joins the session to its user, ignoring rows whose expiry is not strictly after now.
func (r *SessionRepository) GetActive(ctx context.Context, id string, now time.Time) (*domain.SessionInfo, error) {
	var (
		info domain.SessionInfo
		role string
	)
	err := r.db.QueryRowContext(ctx, `
SELECT s.user_id, u.username, u.role
FROM sessions s
JOIN users u ON s.user_id = u.id
WHERE s.id = ? AND s.expires_at > ?`,
		id,
		formatTime(now),
	).Scan(&info.UserID, &info.Username, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("query session: %w", err)
	}
	info.Role = domain.Role(role)
	return &info, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("expired sessions rows affected: %w", err)
	}
	return aff, nil
}
