// Command blogctl performs operator tasks against the blog database.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"inkpress/internal/config"
	"inkpress/internal/domain"
	"inkpress/internal/repository/sqlite"
	"inkpress/internal/service"
)

// readPassword is replaced in tests to avoid touching the terminal.
var readPassword = term.ReadPassword

const usage = `usage: blogctl <command> [flags]

commands:
  create-admin    create a user account (default role admin)
  sweep-sessions  delete expired sessions once
  migrate         apply database migrations
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "blogctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errors.New("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(cfg.LogLevel())

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "create-admin":
		return createAdmin(ctx, cfg, rest, stdout, logger)
	case "sweep-sessions":
		return sweepSessions(ctx, cfg, rest, stdout)
	case "migrate":
		return migrate(ctx, cfg, rest, stdout)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	}
	fmt.Fprint(stderr, usage)
	return fmt.Errorf("unknown command %q", cmd)
}

func newFlagSet(name string) (*pflag.FlagSet, *string) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	dbPath := fs.String("db", "", "database path (overrides database.path)")
	return fs, dbPath
}

func openDB(ctx context.Context, cfg config.Config, override string) (*sql.DB, error) {
	path := cfg.Database.Path
	if override != "" {
		path = override
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, err
	}
	if _, err := sqlite.Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func createAdmin(ctx context.Context, cfg config.Config, args []string, stdout io.Writer, logger logrus.FieldLogger) error {
	fs, dbPath := newFlagSet("create-admin")
	username := fs.StringP("username", "u", "", "account username")
	email := fs.StringP("email", "e", "", "account email")
	role := fs.StringP("role", "r", string(domain.RoleAdmin), "admin, editor or viewer")
	password := fs.String("password", "", "password; prompted for when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *username == "" || *email == "" {
		return errors.New("--username and --email are required")
	}

	if *password == "" {
		fmt.Fprint(stdout, "Enter password: ")
		pw, err := readPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(stdout)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		*password = strings.TrimRight(string(pw), "\r\n")
	}

	db, err := openDB(ctx, cfg, *dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	users := service.NewAuthService(sqlite.NewUserRepository(db), sqlite.NewSessionRepository(db), nil)
	id, err := users.CreateUser(ctx, *username, *email, *password, domain.Role(*role))
	if err != nil {
		if errors.Is(err, service.ErrConstraintViolation) {
			return fmt.Errorf("username or email already taken")
		}
		return err
	}

	logger.WithFields(logrus.Fields{"id": id, "username": *username, "role": *role}).Info("user created")
	fmt.Fprintf(stdout, "created user %s (id %d)\n", *username, id)
	return nil
}

func sweepSessions(ctx context.Context, cfg config.Config, args []string, stdout io.Writer) error {
	fs, dbPath := newFlagSet("sweep-sessions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := openDB(ctx, cfg, *dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	sessions := service.NewAuthService(sqlite.NewUserRepository(db), sqlite.NewSessionRepository(db), nil)
	removed, err := sessions.CleanExpiredSessions(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "removed %d expired sessions\n", removed)
	return nil
}

func migrate(ctx context.Context, cfg config.Config, args []string, stdout io.Writer) error {
	fs, dbPath := newFlagSet("migrate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := cfg.Database.Path
	if *dbPath != "" {
		path = *dbPath
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := sqlite.Migrate(ctx, db)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(stdout, "database is up to date")
		return nil
	}
	for _, v := range applied {
		fmt.Fprintf(stdout, "applied migration %05d\n", v)
	}
	return nil
}
