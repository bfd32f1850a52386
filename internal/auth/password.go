// Package auth holds the credential primitives behind login: PBKDF2
// password hashes, session identifiers and the session cookie codec.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the number of random salt bytes prepended to every hash.
	SaltSize = 16
	// KeySize is the derived key length in bytes.
	KeySize = 32
	// Iterations is the PBKDF2 work factor.
	Iterations = 100_000
)

// HashPassword derives a PBKDF2-HMAC-SHA256 key from plaintext with a fresh
// salt and returns base64(salt || key).
func HashPassword(plaintext string) (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := deriveKey(plaintext, salt)

	combined := make([]byte, 0, SaltSize+KeySize)
	combined = append(combined, salt...)
	combined = append(combined, key...)
	return base64.StdEncoding.EncodeToString(combined), nil
}

// VerifyPassword reports whether plaintext matches the stored hash.
// Malformed hashes verify as false, the same as a wrong password.
func VerifyPassword(plaintext, stored string) bool {
	raw, err := base64.StdEncoding.DecodeString(stored)
	if err != nil || len(raw) != SaltSize+KeySize {
		return false
	}
	salt, expected := raw[:SaltSize], raw[SaltSize:]
	derived := deriveKey(plaintext, salt)
	return subtle.ConstantTimeCompare(derived, expected) == 1
}

func deriveKey(plaintext string, salt []byte) []byte {
	return pbkdf2.Key([]byte(plaintext), salt, Iterations, KeySize, sha256.New)
}
