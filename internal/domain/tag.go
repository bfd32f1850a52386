package domain

import "time"

// Tag is a label attached to posts.
type Tag struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
}
