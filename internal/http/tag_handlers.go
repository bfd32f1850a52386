package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createTagRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug"`
}

type attachTagRequest struct {
	TagID int64 `json:"tag_id" binding:"required"`
}

func (h *Handler) listTags(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	resp := make([]TagResponse, len(tags))
	for i := range tags {
		resp[i] = tagToResponse(tags[i])
	}
	c.JSON(http.StatusOK, gin.H{"tags": resp})
}

func (h *Handler) getTag(c *gin.Context) {
	tag, err := h.tags.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tagToResponse(*tag))
}

func (h *Handler) createTag(c *gin.Context) {
	var req createTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tag, err := h.tags.Create(c.Request.Context(), req.Name, req.Slug)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tagToResponse(*tag))
}

func (h *Handler) deleteTag(c *gin.Context) {
	slug := c.Param("slug")
	if err := h.tags.Delete(c.Request.Context(), slug); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": slug})
}

func (h *Handler) listPostTags(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	tags, err := h.tags.ListForPost(c.Request.Context(), postID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	resp := make([]TagResponse, len(tags))
	for i := range tags {
		resp[i] = tagToResponse(tags[i])
	}
	c.JSON(http.StatusOK, gin.H{"tags": resp})
}

func (h *Handler) attachTag(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	var req attachTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.tags.AttachToPost(c.Request.Context(), postID, req.TagID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post_id": postID, "tag_id": req.TagID})
}

func (h *Handler) detachTag(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	tagID, ok := pathID(c, "tagID")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag id"})
		return
	}
	if err := h.tags.DetachFromPost(c.Request.Context(), postID, tagID); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post_id": postID, "tag_id": tagID})
}
