package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"inkpress/internal/domain"
	"inkpress/internal/repository"
)

type SearchRepository struct {
	db *sql.DB
}

func NewSearchRepository(db *sql.DB) repository.SearchRepository {
	return &SearchRepository{db: db}
}

func (r *SearchRepository) HasIndex(ctx context.Context) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'posts_fts'`).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("probe full-text index: %w", err)
	}
	return count > 0, nil
}

func (r *SearchRepository) MatchIndexed(ctx context.Context, query string, limit int) ([]domain.PostSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT p.id, p.title, p.slug, p.excerpt, p.author, p.published_date, p.featured_image,
       snippet(posts_fts, 1, '<mark>', '</mark>', '...', 32)
FROM posts_fts
JOIN posts p ON posts_fts.rowid = p.id
WHERE posts_fts MATCH ? AND p.status = 'published'
ORDER BY rank
LIMIT ?`,
		query,
		limit,
	)
	if err != nil {
		return nil, classifyIndexError(err)
	}
	defer rows.Close()

	results := []domain.PostSummary{}
	for rows.Next() {
		var snippet sql.NullString
		summary, err := scanSummary(rows, &snippet)
		if err != nil {
			return nil, classifyIndexError(err)
		}
		summary.Snippet = snippet.String
		results = append(results, *summary)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyIndexError(err)
	}
	return results, nil
}

func (r *SearchRepository) MatchSubstring(ctx context.Context, query string, limit int) ([]domain.PostSummary, error) {
	pattern := "%" + escapeLike(query) + "%"
	rows, err := r.db.QueryContext(ctx, `
SELECT id, title, slug, excerpt, author, published_date, featured_image
FROM posts
WHERE (title LIKE ? ESCAPE '\' OR content LIKE ? ESCAPE '\' OR excerpt LIKE ? ESCAPE '\')
  AND status = 'published'
ORDER BY published_date DESC, id ASC
LIMIT ?`,
		pattern, pattern, pattern,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("substring search: %w", err)
	}
	defer rows.Close()

	results := []domain.PostSummary{}
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("substring search: %w", err)
	}
	return results, nil
}

func scanSummary(row scanner, extra ...any) (*domain.PostSummary, error) {
	var (
		summary       domain.PostSummary
		excerpt       sql.NullString
		featuredImage sql.NullString
		publishedDate string
	)
	dest := []any{
		&summary.ID,
		&summary.Title,
		&summary.Slug,
		&excerpt,
		&summary.Author,
		&publishedDate,
		&featuredImage,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, fmt.Errorf("scan search result: %w", err)
	}
	summary.Excerpt = excerpt.String
	summary.FeaturedImage = featuredImage.String

	published, err := parseTime(publishedDate)
	if err != nil {
		return nil, err
	}
	summary.PublishedDate = published
	return &summary, nil
}

// classifyIndexError maps full-text failures onto the repository sentinels
// while keeping the driver error in the chain.
func classifyIndexError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such table"),
		strings.Contains(msg, "no such module"),
		strings.Contains(msg, "database disk image is malformed"):
		return fmt.Errorf("%w: %w", repository.ErrIndexUnavailable, err)
	case strings.Contains(msg, "fts5"),
		strings.Contains(msg, "syntax error"),
		strings.Contains(msg, "unterminated string"),
		strings.Contains(msg, "no such column"),
		strings.Contains(msg, "unknown special query"):
		return fmt.Errorf("%w: %w", repository.ErrMalformedQuery, err)
	}
	return fmt.Errorf("indexed search: %w", err)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
