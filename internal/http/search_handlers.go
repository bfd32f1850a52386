package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// searchPosts answers 503 with an empty hit list when neither strategy worked.
func (h *Handler) searchPosts(c *gin.Context) {
	result, err := h.search.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		status, msg := statusFor(err)
		h.log.WithError(err).Warn("search failed")
		c.JSON(status, gin.H{"error": msg, "posts": []PostSummaryResponse{}})
		return
	}

	resp := SearchResponse{
		Posts:    make([]PostSummaryResponse, len(result.Posts)),
		Strategy: result.Strategy,
	}
	for i := range result.Posts {
		resp.Posts[i] = summaryToResponse(result.Posts[i])
	}
	c.JSON(http.StatusOK, resp)
}
