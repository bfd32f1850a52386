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

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) repository.CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (int64, error) {
	now := time.Now().UTC().Truncate(time.Second)
	comment.CreatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO comments (post_id, author_name, author_email, content, status, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		comment.PostID,
		comment.AuthorName,
		comment.AuthorEmail,
		comment.Content,
		string(comment.Status),
		formatTime(now),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("insert comment: %w", repository.ErrNotFound)
		}
		return 0, fmt.Errorf("insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("comment last insert id: %w", err)
	}
	comment.ID = id
	return id, nil
}

func (r *CommentRepository) Get(ctx context.Context, id int64) (*domain.Comment, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, post_id, author_name, author_email, content, status, created_at
FROM comments
WHERE id = ?`, id)
	return scanComment(row)
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID int64, status domain.CommentStatus) ([]domain.Comment, error) {
	query := `
SELECT id, post_id, author_name, author_email, content, status, created_at
FROM comments
WHERE post_id = ?`
	args := []any{postID}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := []domain.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *comment)
	}
	return comments, rows.Err()
}

func (r *CommentRepository) UpdateStatus(ctx context.Context, id int64, status domain.CommentStatus) error {
	res, err := r.db.ExecContext(ctx, `UPDATE comments SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("update comment status: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("comment update rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("update comment status: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("comment delete rows affected: %w", err)
	}
	if aff == 0 {
		return fmt.Errorf("delete comment: %w", repository.ErrNotFound)
	}
	return nil
}

func scanComment(row scanner) (*domain.Comment, error) {
	var (
		comment   domain.Comment
		status    string
		createdAt string
	)
	if err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorName,
		&comment.AuthorEmail,
		&comment.Content,
		&status,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("comment: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}
	comment.Status = domain.CommentStatus(status)
	created, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	comment.CreatedAt = created
	return &comment, nil
}
