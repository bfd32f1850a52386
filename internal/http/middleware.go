package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"inkpress/internal/auth"
	"inkpress/internal/domain"
	"inkpress/internal/service"
)

const sessionKey = "session"

func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error("request failed")
			return
		}
		entry.Info("request")
	}
}

// loadSession resolves the session cookie, if any. An invalid or expired
// session leaves the request anonymous; only store failures abort.
func (h *Handler) loadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := auth.SessionIDFromHeader(c.GetHeader("Cookie"))
		if id == "" {
			c.Next()
			return
		}

		info, err := h.auth.GetSession(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(sessionKey, info)
		case errors.Is(err, service.ErrSessionInvalid):
		default:
			h.abortWithError(c, err)
			return
		}
		c.Next()
	}
}

func requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentSession(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func requireWriter() gin.HandlerFunc {
	return func(c *gin.Context) {
		info := currentSession(c)
		if info == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !info.Role.CanWrite() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *domain.SessionInfo {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	info, _ := v.(*domain.SessionInfo)
	return info
}
