package http

import (
	"time"

	"inkpress/internal/domain"
	"inkpress/internal/service"
)

type UserResponse struct {
	ID       int64       `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email,omitempty"`
	Role     domain.Role `json:"role"`
}

type PostResponse struct {
	ID            int64             `json:"id"`
	Title         string            `json:"title"`
	Slug          string            `json:"slug"`
	Content       string            `json:"content"`
	Excerpt       string            `json:"excerpt"`
	FeaturedImage string            `json:"featured_image,omitempty"`
	Author        string            `json:"author"`
	PublishedDate string            `json:"published_date"`
	UpdatedDate   *string           `json:"updated_date,omitempty"`
	Status        domain.PostStatus `json:"status"`
	Views         int64             `json:"views"`
	CreatedAt     string            `json:"created_at"`
}

type PostSummaryResponse struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Slug          string `json:"slug"`
	Excerpt       string `json:"excerpt"`
	Author        string `json:"author"`
	PublishedDate string `json:"published_date"`
	FeaturedImage string `json:"featured_image,omitempty"`
	Snippet       string `json:"snippet,omitempty"`
}

type SearchResponse struct {
	Posts    []PostSummaryResponse  `json:"posts"`
	Strategy service.SearchStrategy `json:"strategy,omitempty"`
}

type TagResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"`
}

type CommentResponse struct {
	ID         int64                `json:"id"`
	PostID     int64                `json:"post_id"`
	AuthorName string               `json:"author_name"`
	Content    string               `json:"content"`
	Status     domain.CommentStatus `json:"status"`
	CreatedAt  string               `json:"created_at"`
}

type ImageResponse struct {
	Key          string  `json:"key"`
	URL          string  `json:"url"`
	ContentType  string  `json:"content_type,omitempty"`
	Size         int64   `json:"size"`
	OriginalName string  `json:"original_name,omitempty"`
	UploadedAt   *string `json:"uploaded_at,omitempty"`
	Width        int     `json:"width,omitempty"`
	Height       int     `json:"height,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil || t.IsZero() {
		return nil
	}
	v := formatTime(*t)
	return &v
}

func userToResponse(u *domain.UserSummary) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
}

func sessionToResponse(s *domain.SessionInfo) UserResponse {
	return UserResponse{ID: s.UserID, Username: s.Username, Role: s.Role}
}

func postToResponse(p domain.Post) PostResponse {
	return PostResponse{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		FeaturedImage: p.FeaturedImage,
		Author:        p.Author,
		PublishedDate: formatTime(p.PublishedDate),
		UpdatedDate:   formatTimePtr(p.UpdatedDate),
		Status:        p.Status,
		Views:         p.Views,
		CreatedAt:     formatTime(p.CreatedAt),
	}
}

func summaryToResponse(p domain.PostSummary) PostSummaryResponse {
	return PostSummaryResponse{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Author:        p.Author,
		PublishedDate: formatTime(p.PublishedDate),
		FeaturedImage: p.FeaturedImage,
		Snippet:       p.Snippet,
	}
}

func tagToResponse(t domain.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Slug: t.Slug, CreatedAt: formatTime(t.CreatedAt)}
}

// commentToResponse omits the author's email, which is only kept for moderation.
func commentToResponse(c domain.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		PostID:     c.PostID,
		AuthorName: c.AuthorName,
		Content:    c.Content,
		Status:     c.Status,
		CreatedAt:  formatTime(c.CreatedAt),
	}
}

func imageToResponse(m service.ImageMetadata) ImageResponse {
	return ImageResponse{
		Key:          m.Key,
		URL:          "/api/images/" + m.Key,
		ContentType:  m.ContentType,
		Size:         m.Size,
		OriginalName: m.OriginalName,
		UploadedAt:   formatTimePtr(m.UploadedAt),
		Width:        m.Width,
		Height:       m.Height,
	}
}
