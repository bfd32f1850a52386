package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"inkpress/internal/domain"
	"inkpress/internal/repository"
)

type TagRepository struct {
	db *sql.DB
}

func NewTagRepository(db *sql.DB) repository.TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) (int64, error) {
	now := time.Now().UTC().Truncate(time.Second)
	tag.CreatedAt = now

	res, err := r.db.ExecContext(ctx, `INSERT INTO tags (name, slug, created_at) VALUES (?, ?, ?)`,
		tag.Name,
		tag.Slug,
		formatTime(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert tag: %w", repository.ErrConflict)
		}
		return 0, fmt.Errorf("insert tag: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("tag last insert id: %w", err)
	}
	tag.ID = id
	return id, nil
}

func (r *TagRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("tag delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("delete tag: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *TagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, slug, created_at FROM tags ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	return collectTags(rows)
}

func (r *TagRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, slug, created_at FROM tags WHERE slug = ?`, slug)
	return scanTag(row)
}

func (r *TagRepository) ListForPost(ctx context.Context, postID int64) ([]domain.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT t.id, t.name, t.slug, t.created_at
FROM tags t
INNER JOIN post_tags pt ON t.id = pt.tag_id
WHERE pt.post_id = ?
ORDER BY t.name`, postID)
	if err != nil {
		return nil, fmt.Errorf("query post tags: %w", err)
	}
	return collectTags(rows)
}

func (r *TagRepository) Attach(ctx context.Context, postID, tagID int64) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO post_tags (post_id, tag_id) VALUES (?, ?)`, postID, tagID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("attach tag: %w", repository.ErrNotFound)
		}
		return fmt.Errorf("attach tag: %w", err)
	}
	return nil
}

func (r *TagRepository) Detach(ctx context.Context, postID, tagID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = ? AND tag_id = ?`, postID, tagID); err != nil {
		return fmt.Errorf("detach tag: %w", err)
	}
	return nil
}

func collectTags(rows *sql.Rows) ([]domain.Tag, error) {
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		tag, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, rows.Err()
}

func scanTag(row scanner) (*domain.Tag, error) {
	var (
		tag       domain.Tag
		createdAt string
	)
	if err := row.Scan(&tag.ID, &tag.Name, &tag.Slug, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tag: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan tag: %w", err)
	}
	created, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	tag.CreatedAt = created
	return &tag, nil
}
