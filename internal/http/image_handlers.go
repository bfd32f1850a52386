package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"inkpress/internal/service"
)

const imageFormField = "image"

func (h *Handler) imagesConfigured(c *gin.Context) bool {
	if h.images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage service not configured"})
		return false
	}
	return true
}

func (h *Handler) uploadImage(c *gin.Context) {
	if !h.imagesConfigured(c) {
		return
	}
	header, err := c.FormFile(imageFormField)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	uploaded, err := h.images.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := imageToResponse(uploaded.ImageMetadata)
	resp.URL = uploaded.URL
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) getImage(c *gin.Context) {
	if !h.imagesConfigured(c) {
		return
	}
	key := imageKey(c)
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image key is required"})
		return
	}

	img, err := h.images.Get(c.Request.Context(), key)
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer img.Body.Close()

	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	extra := map[string]string{"Cache-Control": service.ImageCacheControl}
	if img.OriginalName != "" {
		extra["Content-Disposition"] = "inline; filename=" + strconv.Quote(img.OriginalName)
	}
	c.DataFromReader(http.StatusOK, img.Size, contentType, img.Body, extra)
}

func (h *Handler) deleteImage(c *gin.Context) {
	if !h.imagesConfigured(c) {
		return
	}
	key := imageKey(c)
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image key is required"})
		return
	}
	if err := h.images.Delete(c.Request.Context(), key); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": key})
}

func (h *Handler) listImages(c *gin.Context) {
	if !h.imagesConfigured(c) {
		return
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	images, err := h.images.List(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	resp := make([]ImageResponse, len(images))
	for i := range images {
		resp[i] = imageToResponse(images[i])
	}
	c.JSON(http.StatusOK, gin.H{"images": resp})
}

func imageKey(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("key"), "/")
}
