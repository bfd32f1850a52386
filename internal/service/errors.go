package service

import (
	"errors"
	"fmt"

	"inkpress/internal/repository"
)

var (
	// ErrInvalidCredentials covers both an unknown username and a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrConstraintViolation is returned when a unique field is already taken.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrSessionInvalid means the session is missing or expired; the two are not distinguished.
	ErrSessionInvalid = errors.New("session expired or invalid")
	// ErrStoreUnavailable wraps any unexpected failure of the relational store.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrSearchUnavailable is returned when both search strategies failed.
	ErrSearchUnavailable = errors.New("search unavailable")

	// ErrRegistrationClosed is returned once the first account exists.
	ErrRegistrationClosed = errors.New("user registration is disabled")
	// ErrInvalidRole rejects roles outside admin, editor and viewer.
	ErrInvalidRole = errors.New("invalid role")
	// ErrValidation marks malformed caller input.
	ErrValidation = errors.New("validation failed")

	ErrUserNotFound    = errors.New("user not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrTagNotFound     = errors.New("tag not found")
	ErrCommentNotFound = errors.New("comment not found")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// translate maps repository errors onto service kinds. notFound is used for
// repository.ErrNotFound; anything unrecognised becomes ErrStoreUnavailable
// with the cause kept in the chain.
func translate(err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound) && notFound != nil:
		return notFound
	case errors.Is(err, repository.ErrConflict):
		return fmt.Errorf("%w: %w", ErrConstraintViolation, err)
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}
