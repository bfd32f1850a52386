package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"inkpress/internal/domain"
	"inkpress/internal/repository"
)

const postColumns = `id, title, slug, content, excerpt, featured_image, author, published_date, updated_date, status, views, created_at`

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) repository.PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (int64, error) {
	now := time.Now().UTC().Truncate(time.Second)
	post.CreatedAt = now
	if post.PublishedDate.IsZero() {
		post.PublishedDate = now
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO posts (title, slug, content, excerpt, featured_image, author, published_date, updated_date, status, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		post.Title,
		post.Slug,
		post.Content,
		nullString(post.Excerpt),
		nullString(post.FeaturedImage),
		post.Author,
		formatTime(post.PublishedDate),
		nullTime(post.UpdatedDate),
		string(post.Status),
		formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert post: %w", repository.ErrConflict)
		}
		return 0, fmt.Errorf("insert post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("post last insert id: %w", err)
	}
	post.ID = id
	return id, nil
}

func (r *PostRepository) Update(ctx context.Context, id int64, patch domain.PostPatch) error {
	if patch.Empty() {
		return nil
	}

	var (
		fields []string
		args   []any
	)
	set := func(column string, value any) {
		fields = append(fields, column+" = ?")
		args = append(args, value)
	}
	if patch.Title != nil {
		set("title", *patch.Title)
	}
	if patch.Slug != nil {
		set("slug", *patch.Slug)
	}
	if patch.Content != nil {
		set("content", *patch.Content)
	}
	if patch.Excerpt != nil {
		set("excerpt", nullString(*patch.Excerpt))
	}
	if patch.FeaturedImage != nil {
		set("featured_image", nullString(*patch.FeaturedImage))
	}
	if patch.Author != nil {
		set("author", *patch.Author)
	}
	if patch.PublishedDate != nil {
		set("published_date", formatTime(*patch.PublishedDate))
	}
	if patch.UpdatedDate != nil {
		set("updated_date", formatTime(*patch.UpdatedDate))
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE posts SET %s WHERE id = ?`, strings.Join(fields, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update post: %w", repository.ErrConflict)
		}
		return fmt.Errorf("update post: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("post update rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("update post: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("post delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("delete post: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	return scanPost(row)
}

func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
	return scanPost(row)
}

func (r *PostRepository) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	var args []any
	if filter.Status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY published_date DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func (r *PostRepository) IncrementViews(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE posts SET views = views + 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

func scanPost(row scanner) (*domain.Post, error) {
	var (
		post          domain.Post
		excerpt       sql.NullString
		featuredImage sql.NullString
		publishedDate string
		updatedDate   sql.NullString
		status        string
		createdAt     string
	)
	if err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&excerpt,
		&featuredImage,
		&post.Author,
		&publishedDate,
		&updatedDate,
		&status,
		&post.Views,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("post: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}

	post.Excerpt = excerpt.String
	post.FeaturedImage = featuredImage.String
	post.Status = domain.PostStatus(status)

	var err error
	if post.PublishedDate, err = parseTime(publishedDate); err != nil {
		return nil, err
	}
	if post.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if post.UpdatedDate, err = parseNullTime(updatedDate); err != nil {
		return nil, err
	}
	return &post, nil
}
