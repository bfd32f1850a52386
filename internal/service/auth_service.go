package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inkpress/internal/auth"
	"inkpress/internal/domain"
	"inkpress/internal/repository"
)

// AuthService owns password verification and the session lifecycle.
type AuthService interface {
	CreateUser(ctx context.Context, username, email, password string, role domain.Role) (int64, error)
	Register(ctx context.Context, username, email, password string) (int64, error)
	Authenticate(ctx context.Context, username, password string) (*domain.UserSummary, error)
	CreateSession(ctx context.Context, userID int64) (string, error)
	GetSession(ctx context.Context, sessionID string) (*domain.SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error
	CleanExpiredSessions(ctx context.Context) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*domain.UserSummary, error)
	CountUsers(ctx context.Context) (int64, error)
}

type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	now      func() time.Time
}

// NewAuthService builds an AuthService. A nil clock defaults to time.Now.
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository, now func() time.Time) AuthService {
	if now == nil {
		now = time.Now
	}
	return &authService{
		users:    users,
		sessions: sessions,
		now:      now,
	}
}

func (s *authService) CreateUser(ctx context.Context, username, email, password string, role domain.Role) (int64, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return 0, validationError("username, email and password are required")
	}
	if role == "" {
		role = domain.RoleAdmin
	}
	if !role.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	id, err := s.users.Create(ctx, user)
	if err != nil {
		return 0, translate(err, nil)
	}
	return id, nil
}

// Register creates the first administrator. It is refused once any user exists.
func (s *authService) Register(ctx context.Context, username, email, password string) (int64, error) {
	count, err := s.CountUsers(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, ErrRegistrationClosed
	}
	return s.CreateUser(ctx, username, email, password, domain.RoleAdmin)
}

func (s *authService) Authenticate(ctx context.Context, username, password string) (*domain.UserSummary, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, translate(err, ErrInvalidCredentials)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		return nil, translate(err, ErrInvalidCredentials)
	}

	return user.Summary(), nil
}

func (s *authService) CreateSession(ctx context.Context, userID int64) (string, error) {
	id, err := auth.NewSessionID()
	if err != nil {
		return "", err
	}

	now := s.now()
	session := &domain.Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: now.Add(auth.SessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", translate(err, nil)
	}
	return id, nil
}

func (s *authService) GetSession(ctx context.Context, sessionID string) (*domain.SessionInfo, error) {
	if sessionID == "" {
		return nil, ErrSessionInvalid
	}
	info, err := s.sessions.GetActive(ctx, sessionID, s.now())
	if err != nil {
		return nil, translate(err, ErrSessionInvalid)
	}
	return info, nil
}

func (s *authService) DeleteSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return translate(s.sessions.Delete(ctx, sessionID), nil)
}

func (s *authService) CleanExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, translate(err, nil)
	}
	return n, nil
}

func (s *authService) GetUserByID(ctx context.Context, id int64) (*domain.UserSummary, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrUserNotFound)
	}
	return user.Summary(), nil
}

func (s *authService) CountUsers(ctx context.Context) (int64, error) {
	n, err := s.users.Count(ctx)
	if err != nil {
		return 0, translate(err, nil)
	}
	return n, nil
}

// IsStoreFailure reports whether err came from the store rather than from
// the caller's input.
func IsStoreFailure(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}
