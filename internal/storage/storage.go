package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrObjectNotFound is returned when a key does not exist in the bucket.
var ErrObjectNotFound = errors.New("object not found")

type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified *time.Time
	Metadata     map[string]string
}

// PutOptions conveys object metadata for uploads.
type PutOptions struct {
	ContentType  string
	CacheControl string
	Metadata     map[string]string
}

// Object is a readable stored object. Callers must close Body.
type Object struct {
	ObjectInfo
	Body io.ReadCloser
}

// Service stores and retrieves blobs in remote object storage.
type Service interface {
	Put(ctx context.Context, key string, body io.Reader, opts PutOptions) error
	Get(ctx context.Context, key string) (*Object, error)
	Head(ctx context.Context, key string) (*ObjectInfo, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string, limit int) ([]ObjectInfo, error)
}
