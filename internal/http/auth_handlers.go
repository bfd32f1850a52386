package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkpress/internal/auth"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	id, err := h.auth.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	user, err := h.auth.GetUserByID(ctx, id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	sessionID, err := h.auth.CreateSession(ctx, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Set-Cookie", auth.SessionCookie(sessionID))
	c.JSON(http.StatusCreated, gin.H{"user": userToResponse(user)})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	ctx := c.Request.Context()
	user, err := h.auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	sessionID, err := h.auth.CreateSession(ctx, user.ID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Set-Cookie", auth.SessionCookie(sessionID))
	c.JSON(http.StatusOK, gin.H{"user": userToResponse(user)})
}

func (h *Handler) logout(c *gin.Context) {
	sessionID := auth.SessionIDFromHeader(c.GetHeader("Cookie"))
	if err := h.auth.DeleteSession(c.Request.Context(), sessionID); err != nil {
		h.writeError(c, err)
		return
	}

	c.Header("Set-Cookie", auth.ClearSessionCookie())
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) session(c *gin.Context) {
	info := currentSession(c)
	if info == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": sessionToResponse(info)})
}
