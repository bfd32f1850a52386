package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"inkpress/internal/service"
)

// Dependencies bundles the services the HTTP layer calls. Images may be nil
// when no bucket is configured; the image routes then answer 503.
type Dependencies struct {
	Auth     service.AuthService
	Posts    service.PostService
	Tags     service.TagService
	Comments service.CommentService
	Search   service.SearchService
	Images   service.ImageService
	Logger   logrus.FieldLogger
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth     service.AuthService
	posts    service.PostService
	tags     service.TagService
	comments service.CommentService
	search   service.SearchService
	images   service.ImageService
	log      logrus.FieldLogger
}

func NewHandler(deps Dependencies) *Handler {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		auth:     deps.Auth,
		posts:    deps.Posts,
		tags:     deps.Tags,
		comments: deps.Comments,
		search:   deps.Search,
		images:   deps.Images,
		log:      log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), requestLogger(h.log), h.loadSession())

	api := router.Group("/api")
	{
		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
		api.POST("/auth/logout", h.logout)
		api.GET("/auth/session", h.session)

		api.GET("/posts", h.listPosts)
		api.GET("/posts/:id", h.getPost)
		api.GET("/posts/:id/tags", h.listPostTags)
		api.GET("/posts/:id/comments", h.listComments)
		api.POST("/posts/:id/comments", h.createComment)

		api.GET("/tags", h.listTags)
		api.GET("/tags/:slug", h.getTag)

		api.GET("/images/*key", h.getImage)
		api.GET("/search", h.searchPosts)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.GET("/uploads", requireSession(), h.listImages)

		writer := api.Group("", requireWriter())
		writer.POST("/posts", h.createPost)
		writer.PUT("/posts/:id", h.updatePost)
		writer.DELETE("/posts/:id", h.deletePost)
		writer.POST("/posts/:id/tags", h.attachTag)
		writer.DELETE("/posts/:id/tags/:tagID", h.detachTag)
		writer.PUT("/comments/:id/status", h.moderateComment)
		writer.DELETE("/comments/:id", h.deleteComment)
		writer.POST("/tags", h.createTag)
		writer.DELETE("/tags/:slug", h.deleteTag)
		writer.POST("/images/upload", h.uploadImage)
		writer.DELETE("/images/*key", h.deleteImage)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
