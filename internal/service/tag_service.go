package service

import (
	"context"
	"strings"

	"inkpress/internal/content"
	"inkpress/internal/domain"
	"inkpress/internal/repository"
)

// TagService manages tags and their attachment to posts.
type TagService interface {
	List(ctx context.Context) ([]domain.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Tag, error)
	Create(ctx context.Context, name, slug string) (*domain.Tag, error)
	Delete(ctx context.Context, slug string) error
	ListForPost(ctx context.Context, postID int64) ([]domain.Tag, error)
	AttachToPost(ctx context.Context, postID, tagID int64) error
	DetachFromPost(ctx context.Context, postID, tagID int64) error
}

type tagService struct {
	tags  repository.TagRepository
	posts repository.PostRepository
}

func NewTagService(tags repository.TagRepository, posts repository.PostRepository) TagService {
	return &tagService{tags: tags, posts: posts}
}

func (s *tagService) List(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, translate(err, nil)
	}
	return tags, nil
}

func (s *tagService) GetBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	tag, err := s.tags.GetBySlug(ctx, slug)
	if err != nil {
		return nil, translate(err, ErrTagNotFound)
	}
	return tag, nil
}

func (s *tagService) Create(ctx context.Context, name, slug string) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationError("tag name is required")
	}
	slug = content.Slugify(slug)
	if slug == "" {
		slug = content.Slugify(name)
	}
	if slug == "" {
		return nil, validationError("slug cannot be derived from name")
	}

	tag := &domain.Tag{Name: name, Slug: slug}
	if _, err := s.tags.Create(ctx, tag); err != nil {
		return nil, translate(err, nil)
	}
	return tag, nil
}

func (s *tagService) Delete(ctx context.Context, slug string) error {
	tag, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return translate(s.tags.Delete(ctx, tag.ID), ErrTagNotFound)
}

func (s *tagService) ListForPost(ctx context.Context, postID int64) ([]domain.Tag, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, translate(err, ErrPostNotFound)
	}
	tags, err := s.tags.ListForPost(ctx, postID)
	if err != nil {
		return nil, translate(err, nil)
	}
	return tags, nil
}

func (s *tagService) AttachToPost(ctx context.Context, postID, tagID int64) error {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return translate(err, ErrPostNotFound)
	}
	return translate(s.tags.Attach(ctx, postID, tagID), ErrTagNotFound)
}

func (s *tagService) DetachFromPost(ctx context.Context, postID, tagID int64) error {
	return translate(s.tags.Detach(ctx, postID, tagID), nil)
}
