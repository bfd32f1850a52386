package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkpress/internal/domain"
	"inkpress/internal/repository/sqlite"
)

func newAuthFixture(t *testing.T) (AuthService, *testClock) {
	t.Helper()
	db := newTestDB(t)
	clock := newTestClock()
	svc := NewAuthService(sqlite.NewUserRepository(db), sqlite.NewSessionRepository(db), clock.Now)
	return svc, clock
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	id, err := svc.CreateUser(ctx, "alice", "alice@example.com", "s3cret", "")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, domain.RoleAdmin, user.Role)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestAuthenticateDoesNotRevealWhichCheckFailed(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()
	_, err := svc.CreateUser(ctx, "alice", "alice@example.com", "s3cret", domain.RoleEditor)
	require.NoError(t, err)

	_, wrongPassword := svc.Authenticate(ctx, "alice", "guess")
	_, unknownUser := svc.Authenticate(ctx, "mallory", "s3cret")
	_, wrongCase := svc.Authenticate(ctx, "Alice", "s3cret")

	for _, err := range []error{wrongPassword, unknownUser, wrongCase} {
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, wrongPassword.Error(), err.Error())
	}
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "alice", "alice@example.com", "pw", "owner")
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.CreateUser(ctx, " ", "alice@example.com", "pw", "")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateUser(ctx, "alice", "alice@example.com", "pw", "")
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, "alice", "other@example.com", "pw", "")
	assert.ErrorIs(t, err, ErrConstraintViolation)
	_, err = svc.CreateUser(ctx, "bob", "alice@example.com", "pw", "")
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func TestRegisterOnlyFirstUser(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "alice", "alice@example.com", "pw")
	require.NoError(t, err)
	user, err := svc.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	_, err = svc.Register(ctx, "bob", "bob@example.com", "pw")
	assert.ErrorIs(t, err, ErrRegistrationClosed)

	count, err := svc.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSessionExpiryBoundary(t *testing.T) {
	svc, clock := newAuthFixture(t)
	ctx := context.Background()
	userID, err := svc.CreateUser(ctx, "alice", "alice@example.com", "pw", "")
	require.NoError(t, err)

	sessionID, err := svc.CreateSession(ctx, userID)
	require.NoError(t, err)
	assert.NotEmpty(t, sessionID)

	info, err := svc.GetSession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, userID, info.UserID)
	assert.Equal(t, "alice", info.Username)
	assert.Equal(t, domain.RoleAdmin, info.Role)

	clock.Advance(6*24*time.Hour + 23*time.Hour)
	_, err = svc.GetSession(ctx, sessionID)
	require.NoError(t, err)

	clock.Advance(time.Hour + time.Second)
	_, err = svc.GetSession(ctx, sessionID)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestGetSessionUnknownOrEmpty(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.GetSession(ctx, "")
	assert.ErrorIs(t, err, ErrSessionInvalid)
	_, err = svc.GetSession(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestDeleteSessionIsIdempotent(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()
	userID, err := svc.CreateUser(ctx, "alice", "alice@example.com", "pw", "")
	require.NoError(t, err)
	sessionID, err := svc.CreateSession(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSession(ctx, sessionID))
	_, err = svc.GetSession(ctx, sessionID)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	require.NoError(t, svc.DeleteSession(ctx, sessionID))
	_, err = svc.GetSession(ctx, sessionID)
	assert.ErrorIs(t, err, ErrSessionInvalid)

	require.NoError(t, svc.DeleteSession(ctx, ""))
}

func TestCleanExpiredSessions(t *testing.T) {
	svc, clock := newAuthFixture(t)
	ctx := context.Background()
	userID, err := svc.CreateUser(ctx, "alice", "alice@example.com", "pw", "")
	require.NoError(t, err)

	var old []string
	for i := 0; i < 3; i++ {
		id, err := svc.CreateSession(ctx, userID)
		require.NoError(t, err)
		old = append(old, id)
	}
	clock.Advance(2 * 24 * time.Hour)
	fresh, err := svc.CreateSession(ctx, userID)
	require.NoError(t, err)

	clock.Advance(6 * 24 * time.Hour)
	removed, err := svc.CleanExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	_, err = svc.GetSession(ctx, fresh)
	assert.NoError(t, err)
	for _, id := range old {
		_, err := svc.GetSession(ctx, id)
		assert.ErrorIs(t, err, ErrSessionInvalid)
	}

	removed, err = svc.CleanExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestGetUserByIDMissing(t *testing.T) {
	svc, _ := newAuthFixture(t)
	_, err := svc.GetUserByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthStoreFailures(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	svc := NewAuthService(sqlite.NewUserRepository(db), sqlite.NewSessionRepository(db), newTestClock().Now)
	ctx := context.Background()
	cause := errors.New("database is locked")

	mock.ExpectQuery("FROM users").WillReturnError(cause)
	_, err = svc.Authenticate(ctx, "alice", "pw")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
	assert.True(t, IsStoreFailure(err))

	mock.ExpectQuery("FROM sessions").WillReturnError(cause)
	_, err = svc.GetSession(ctx, "abc")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NotErrorIs(t, err, ErrSessionInvalid)

	mock.ExpectExec("DELETE FROM sessions").WillReturnError(cause)
	_, err = svc.CleanExpiredSessions(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	assert.NoError(t, mock.ExpectationsWereMet())
}
