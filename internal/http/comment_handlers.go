package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inkpress/internal/domain"
	"inkpress/internal/service"
)

type createCommentRequest struct {
	AuthorName  string `json:"author_name" binding:"required"`
	AuthorEmail string `json:"author_email" binding:"required"`
	Content     string `json:"content" binding:"required"`
}

type moderateCommentRequest struct {
	Status domain.CommentStatus `json:"status" binding:"required"`
}

func (h *Handler) listComments(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	status := domain.CommentStatusApproved
	switch raw := c.Query("status"); raw {
	case "", string(domain.CommentStatusApproved):
	case "all":
		status = ""
	default:
		status = domain.CommentStatus(raw)
	}
	if status != domain.CommentStatusApproved && currentSession(c) == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	comments, err := h.comments.ListForPost(c.Request.Context(), postID, status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	resp := make([]CommentResponse, len(comments))
	for i := range comments {
		resp[i] = commentToResponse(comments[i])
	}
	c.JSON(http.StatusOK, gin.H{"comments": resp})
}

func (h *Handler) createComment(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Submit(c.Request.Context(), service.NewComment{
		PostID:      postID,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Content:     req.Content,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commentToResponse(*comment))
}

func (h *Handler) moderateComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}
	var req moderateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comment, err := h.comments.Moderate(c.Request.Context(), id, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentToResponse(*comment))
}

func (h *Handler) deleteComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}
	if err := h.comments.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
