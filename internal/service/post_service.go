package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"inkpress/internal/content"
	"inkpress/internal/domain"
	"inkpress/internal/repository"
)

const (
	DefaultPostLimit = 10
	MaxPostLimit     = 100
)

// NewPost is the input for PostService.Create.
type NewPost struct {
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	FeaturedImage string
	Author        string
	PublishedDate *time.Time
	Status        domain.PostStatus
}

// PostService coordinates post operations backed by repositories.
type PostService interface {
	List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error)
	Get(ctx context.Context, id int64) (*domain.Post, error)
	// View loads a post by slug and counts a view when it is published.
	View(ctx context.Context, slug string) (*domain.Post, error)
	Create(ctx context.Context, input NewPost) (*domain.Post, error)
	Update(ctx context.Context, id int64, patch domain.PostPatch) (*domain.Post, error)
	Delete(ctx context.Context, id int64) error
}

type postService struct {
	posts repository.PostRepository
	now   func() time.Time
}

func NewPostService(posts repository.PostRepository, now func() time.Time) PostService {
	if now == nil {
		now = time.Now
	}
	return &postService{posts: posts, now: now}
}

func (s *postService) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, validationError("unknown status %q", filter.Status)
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultPostLimit
	case filter.Limit > MaxPostLimit:
		filter.Limit = MaxPostLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, translate(err, nil)
	}
	return posts, nil
}

func (s *postService) Get(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, ErrPostNotFound)
	}
	return post, nil
}

func (s *postService) View(ctx context.Context, slug string) (*domain.Post, error) {
	post, err := s.posts.GetBySlug(ctx, slug)
	if err != nil {
		return nil, translate(err, ErrPostNotFound)
	}
	if post.Status == domain.PostStatusPublished {
		if err := s.posts.IncrementViews(ctx, post.ID); err != nil {
			return nil, translate(err, nil)
		}
		post.Views++
	}
	return post, nil
}

func (s *postService) Create(ctx context.Context, input NewPost) (*domain.Post, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, validationError("title is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, validationError("content is required")
	}
	if strings.TrimSpace(input.Author) == "" {
		return nil, validationError("author is required")
	}
	if input.Status == "" {
		input.Status = domain.PostStatusDraft
	}
	if !input.Status.Valid() {
		return nil, validationError("unknown status %q", input.Status)
	}

	slug := content.Slugify(input.Slug)
	if slug == "" {
		slug = content.Slugify(input.Title)
	}
	if slug == "" {
		return nil, validationError("slug cannot be derived from title")
	}

	excerpt := strings.TrimSpace(input.Excerpt)
	if excerpt == "" {
		excerpt = content.Excerpt(input.Content, content.DefaultExcerptLength)
	}

	published := s.now().UTC()
	if input.PublishedDate != nil {
		published = input.PublishedDate.UTC()
	}

	post := &domain.Post{
		Title:         input.Title,
		Slug:          slug,
		Content:       input.Content,
		Excerpt:       excerpt,
		FeaturedImage: strings.TrimSpace(input.FeaturedImage),
		Author:        strings.TrimSpace(input.Author),
		PublishedDate: published.Truncate(time.Second),
		Status:        input.Status,
	}
	if _, err := s.posts.Create(ctx, post); err != nil {
		return nil, translate(err, nil)
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, id int64, patch domain.PostPatch) (*domain.Post, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, validationError("title cannot be empty")
	}
	if patch.Slug != nil {
		slug := content.Slugify(*patch.Slug)
		if slug == "" {
			return nil, validationError("slug cannot be empty")
		}
		patch.Slug = &slug
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, validationError("unknown status %q", *patch.Status)
	}

	if !patch.Empty() {
		updated := s.now().UTC()
		patch.UpdatedDate = &updated
		if err := s.posts.Update(ctx, id, patch); err != nil {
			return nil, translate(err, ErrPostNotFound)
		}
	}
	return s.Get(ctx, id)
}

func (s *postService) Delete(ctx context.Context, id int64) error {
	return translate(s.posts.Delete(ctx, id), ErrPostNotFound)
}

// IsNotFound reports whether err is any of the service level not-found kinds.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, ErrTagNotFound) ||
		errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrImageNotFound)
}
