package service

import (
	"context"
	"net/mail"
	"strings"

	"inkpress/internal/domain"
	"inkpress/internal/repository"
)

// NewComment is a reader submission.
type NewComment struct {
	PostID      int64
	AuthorName  string
	AuthorEmail string
	Content     string
}

// CommentService handles reader comments and their moderation.
type CommentService interface {
	ListForPost(ctx context.Context, postID int64, status domain.CommentStatus) ([]domain.Comment, error)
	Submit(ctx context.Context, input NewComment) (*domain.Comment, error)
	Moderate(ctx context.Context, id int64, status domain.CommentStatus) (*domain.Comment, error)
	Delete(ctx context.Context, id int64) error
}

type commentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) CommentService {
	return &commentService{comments: comments, posts: posts}
}

// ListForPost lists comments of a post; an empty status lists every status.
func (s *commentService) ListForPost(ctx context.Context, postID int64, status domain.CommentStatus) ([]domain.Comment, error) {
	if status != "" && !status.Valid() {
		return nil, validationError("unknown status %q", status)
	}
	comments, err := s.comments.ListByPost(ctx, postID, status)
	if err != nil {
		return nil, translate(err, nil)
	}
	return comments, nil
}

// Submit stores a new comment awaiting moderation.
func (s *commentService) Submit(ctx context.Context, input NewComment) (*domain.Comment, error) {
	input.AuthorName = strings.TrimSpace(input.AuthorName)
	input.AuthorEmail = strings.TrimSpace(input.AuthorEmail)
	input.Content = strings.TrimSpace(input.Content)
	if input.AuthorName == "" || input.AuthorEmail == "" || input.Content == "" {
		return nil, validationError("name, email and content are required")
	}
	if _, err := mail.ParseAddress(input.AuthorEmail); err != nil {
		return nil, validationError("invalid email address")
	}

	if _, err := s.posts.GetByID(ctx, input.PostID); err != nil {
		return nil, translate(err, ErrPostNotFound)
	}

	comment := &domain.Comment{
		PostID:      input.PostID,
		AuthorName:  input.AuthorName,
		AuthorEmail: input.AuthorEmail,
		Content:     input.Content,
		Status:      domain.CommentStatusPending,
	}
	if _, err := s.comments.Create(ctx, comment); err != nil {
		return nil, translate(err, ErrPostNotFound)
	}
	return comment, nil
}

func (s *commentService) Moderate(ctx context.Context, id int64, status domain.CommentStatus) (*domain.Comment, error) {
	if !status.Valid() {
		return nil, validationError("unknown status %q", status)
	}
	if err := s.comments.UpdateStatus(ctx, id, status); err != nil {
		return nil, translate(err, ErrCommentNotFound)
	}
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		return nil, translate(err, ErrCommentNotFound)
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, id int64) error {
	return translate(s.comments.Delete(ctx, id), ErrCommentNotFound)
}
