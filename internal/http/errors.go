package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkpress/internal/service"
)

// statusFor maps service error kinds onto HTTP status codes and the message
// clients see. Store failures never leak their cause.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, service.ErrSessionInvalid):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, service.ErrRegistrationClosed):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrConstraintViolation):
		return http.StatusConflict, "already exists"
	case service.IsNotFound(err):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidImage):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrSearchUnavailable):
		return http.StatusServiceUnavailable, "search unavailable"
	case errors.Is(err, service.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "service unavailable"
	}
	return http.StatusInternalServerError, "internal error"
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.WithError(err).WithField("path", c.Request.URL.Path).Error("request error")
	}
	c.JSON(status, gin.H{"error": msg})
}

func (h *Handler) abortWithError(c *gin.Context, err error) {
	h.writeError(c, err)
	c.Abort()
}
