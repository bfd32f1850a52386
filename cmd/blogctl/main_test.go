package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkpress/internal/domain"
	"inkpress/internal/repository/sqlite"
	"inkpress/internal/service"
)

func TestRunRequiresCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), nil, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, stderr.String(), "usage: blogctl")
}

func TestRunUnknownCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"publish"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish")
}

func TestMigrateThenUpToDate(t *testing.T) {
	t.Chdir(t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "blog.db")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"migrate", "--db", dbPath}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "applied migration 00001")

	stdout.Reset()
	require.NoError(t, run(context.Background(), []string{"migrate", "--db", dbPath}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "up to date")
}

func TestCreateAdminPromptsForPassword(t *testing.T) {
	t.Chdir(t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "blog.db")

	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("correct horse"), nil }
	t.Cleanup(func() { readPassword = orig })

	var stdout, stderr bytes.Buffer
	args := []string{"create-admin", "--db", dbPath, "-u", "alice", "-e", "alice@example.com"}
	require.NoError(t, run(context.Background(), args, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "created user alice")

	db, err := sqlite.Open(dbPath)
	require.NoError(t, err)
	defer db.Close()

	users := service.NewAuthService(sqlite.NewUserRepository(db), sqlite.NewSessionRepository(db), nil)
	user, err := users.Authenticate(context.Background(), "alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)
}

func TestCreateAdminRejectsDuplicate(t *testing.T) {
	t.Chdir(t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "blog.db")
	args := []string{"create-admin", "--db", dbPath, "-u", "alice", "-e", "alice@example.com", "--password", "pw"}

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), args, &stdout, &stderr))
	err := run(context.Background(), args, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
}

func TestCreateAdminPasswordReadFailure(t *testing.T) {
	t.Chdir(t.TempDir())
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }
	t.Cleanup(func() { readPassword = orig })

	var stdout, stderr bytes.Buffer
	args := []string{"create-admin", "--db", filepath.Join(t.TempDir(), "blog.db"), "-u", "bob", "-e", "bob@example.com"}
	err := run(context.Background(), args, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a terminal")
}

func TestSweepSessions(t *testing.T) {
	t.Chdir(t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "blog.db")

	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"sweep-sessions", "--db", dbPath}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "removed 0 expired sessions")
}
