package domain

import "time"

type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Valid reports whether s is a storable post status.
func (s PostStatus) Valid() bool {
	return s == PostStatusDraft || s == PostStatusPublished
}

// Post is a blog article written in markdown.
type Post struct {
	ID            int64
	Title         string
	Slug          string
	Content       string
	Excerpt       string
	FeaturedImage string
	Author        string
	PublishedDate time.Time
	UpdatedDate   *time.Time
	Status        PostStatus
	Views         int64
	CreatedAt     time.Time
}

// PostPatch carries a partial update; nil fields are left untouched.
type PostPatch struct {
	Title         *string
	Slug          *string
	Content       *string
	Excerpt       *string
	FeaturedImage *string
	Author        *string
	PublishedDate *time.Time
	UpdatedDate   *time.Time
	Status        *PostStatus
}

// Empty reports whether the patch changes nothing.
func (p PostPatch) Empty() bool {
	return p.Title == nil && p.Slug == nil && p.Content == nil && p.Excerpt == nil &&
		p.FeaturedImage == nil && p.Author == nil && p.PublishedDate == nil &&
		p.UpdatedDate == nil && p.Status == nil
}

// PostFilter narrows post listings.
type PostFilter struct {
	// Status is empty to list every status.
	Status PostStatus
	Limit  int
	Offset int
}

// PostSummary is a search hit. Snippet is only set by full-text matches.
type PostSummary struct {
	ID            int64
	Title         string
	Slug          string
	Excerpt       string
	Author        string
	PublishedDate time.Time
	FeaturedImage string
	Snippet       string
}
