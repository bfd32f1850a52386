package repository

import (
	"context"

	"inkpress/internal/domain"
)

// PostRepository exposes persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) (int64, error)
	Update(ctx context.Context, id int64, patch domain.PostPatch) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)
	List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error)
	IncrementViews(ctx context.Context, id int64) error
}

// SearchRepository runs keyword queries against published posts.
type SearchRepository interface {
	// HasIndex reports whether the full-text index exists.
	HasIndex(ctx context.Context) (bool, error)
	// MatchIndexed queries the full-text index ordered by relevance.
	MatchIndexed(ctx context.Context, query string, limit int) ([]domain.PostSummary, error)
	// MatchSubstring performs a case-insensitive substring scan ordered by
	// publish date, newest first.
	MatchSubstring(ctx context.Context, query string, limit int) ([]domain.PostSummary, error)
}

// TagRepository manages tags and their post associations.
type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) (int64, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	ListForPost(ctx context.Context, postID int64) ([]domain.Tag, error)
	Attach(ctx context.Context, postID, tagID int64) error
	Detach(ctx context.Context, postID, tagID int64) error
}

// CommentRepository manages reader comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Comment, error)
	// ListByPost returns comments newest first; an empty status lists all.
	ListByPost(ctx context.Context, postID int64, status domain.CommentStatus) ([]domain.Comment, error)
	UpdateStatus(ctx context.Context, id int64, status domain.CommentStatus) error
	Delete(ctx context.Context, id int64) error
}
