package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"inkpress/internal/domain"
	"inkpress/internal/service"
)

type createPostRequest struct {
	Title         string            `json:"title" binding:"required"`
	Slug          string            `json:"slug"`
	Content       string            `json:"content" binding:"required"`
	Excerpt       string            `json:"excerpt"`
	FeaturedImage string            `json:"featured_image"`
	Author        string            `json:"author"`
	PublishedDate *time.Time        `json:"published_date"`
	Status        domain.PostStatus `json:"status"`
}

type updatePostRequest struct {
	Title         *string            `json:"title"`
	Slug          *string            `json:"slug"`
	Content       *string            `json:"content"`
	Excerpt       *string            `json:"excerpt"`
	FeaturedImage *string            `json:"featured_image"`
	Author        *string            `json:"author"`
	PublishedDate *time.Time         `json:"published_date"`
	Status        *domain.PostStatus `json:"status"`
}

func (h *Handler) listPosts(c *gin.Context) {
	filter := domain.PostFilter{Status: domain.PostStatusPublished}
	switch status := c.Query("status"); status {
	case "", string(domain.PostStatusPublished):
	case "all":
		filter.Status = ""
	default:
		filter.Status = domain.PostStatus(status)
	}
	if filter.Status != domain.PostStatusPublished && currentSession(c) == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var err error
	if filter.Limit, err = intQuery(c, "limit"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	if filter.Offset, err = intQuery(c, "offset"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offset"})
		return
	}

	posts, err := h.posts.List(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]PostResponse, len(posts))
	for i := range posts {
		resp[i] = postToResponse(posts[i])
	}
	c.JSON(http.StatusOK, gin.H{"posts": resp})
}

// getPost accepts a numeric id or a slug. Slug lookups count as a view.
func (h *Handler) getPost(c *gin.Context) {
	var (
		post *domain.Post
		err  error
	)
	if id, ok := pathID(c, "id"); ok {
		post, err = h.posts.Get(c.Request.Context(), id)
	} else {
		post, err = h.posts.View(c.Request.Context(), c.Param("id"))
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	if post.Status != domain.PostStatusPublished && currentSession(c) == nil {
		h.writeError(c, service.ErrPostNotFound)
		return
	}

	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Author == "" {
		req.Author = currentSession(c).Username
	}

	post, err := h.posts.Create(c.Request.Context(), service.NewPost{
		Title:         req.Title,
		Slug:          req.Slug,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		Author:        req.Author,
		PublishedDate: req.PublishedDate,
		Status:        req.Status,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, postToResponse(*post))
}

func (h *Handler) updatePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	var req updatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Update(c.Request.Context(), id, domain.PostPatch{
		Title:         req.Title,
		Slug:          req.Slug,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		Author:        req.Author,
		PublishedDate: req.PublishedDate,
		Status:        req.Status,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) deletePost(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	if err := h.posts.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
