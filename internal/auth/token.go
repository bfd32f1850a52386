package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// SessionIDBytes is the entropy of a session identifier.
const SessionIDBytes = 32

// NewSessionID returns an unguessable URL-safe session identifier.
func NewSessionID() (string, error) {
	buf := make([]byte, SessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
