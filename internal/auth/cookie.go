package auth

import (
	"fmt"
	"strings"
	"time"
)

const (
	// SessionCookieName names the cookie carrying the session id.
	SessionCookieName = "session"
	// SessionTTL is both the stored session lifetime and the cookie Max-Age.
	SessionTTL = 7 * 24 * time.Hour
)

// SessionCookie renders the Set-Cookie value for a freshly issued session.
func SessionCookie(sessionID string) string {
	return fmt.Sprintf("%s=%s; HttpOnly; Secure; SameSite=Lax; Max-Age=%d; Path=/",
		SessionCookieName, sessionID, int(SessionTTL.Seconds()))
}

// ClearSessionCookie renders the Set-Cookie value that drops the session cookie.
func ClearSessionCookie() string {
	return SessionCookieName + "=; HttpOnly; Secure; SameSite=Lax; Max-Age=0; Path=/"
}

// SessionIDFromHeader extracts the session id from a Cookie request header.
// It returns "" when the cookie is absent or empty.
func SessionIDFromHeader(header string) string {
	for _, part := range strings.Split(header, ";") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok || name != SessionCookieName {
			continue
		}
		return strings.Trim(strings.TrimSpace(value), `"`)
	}
	return ""
}
