package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"inkpress/internal/storage"
)

const (
	DefaultImagePrefix   = "uploads"
	DefaultMaxImageBytes = 10 << 20
	ImageCacheControl    = "public, max-age=31536000, immutable"
	maxImageList         = 100
)

var (
	ErrImageNotFound = errors.New("image not found")
	// ErrInvalidImage rejects uploads that are empty, too large or not images.
	ErrInvalidImage = errors.New("invalid image")
)

// ImageMetadata describes a stored image.
type ImageMetadata struct {
	Key          string
	ContentType  string
	Size         int64
	OriginalName string
	UploadedAt   *time.Time
	Width        int
	Height       int
}

// UploadedImage is the result of a successful upload.
type UploadedImage struct {
	ImageMetadata
	URL string
}

// Image is a readable stored image. Callers must close Body.
type Image struct {
	ImageMetadata
	Body io.ReadCloser
}

// ImageService keeps post images in the object store.
type ImageService interface {
	Upload(ctx context.Context, name string, body io.Reader) (*UploadedImage, error)
	Get(ctx context.Context, key string) (*Image, error)
	Head(ctx context.Context, key string) (*ImageMetadata, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, limit int) ([]ImageMetadata, error)
}

// ImageOptions configures NewImageService.
type ImageOptions struct {
	KeyPrefix string
	MaxBytes  int64
	Now       func() time.Time
}

type imageService struct {
	store    storage.Service
	prefix   string
	maxBytes int64
	now      func() time.Time
}

func NewImageService(store storage.Service, opts ImageOptions) ImageService {
	prefix := strings.Trim(opts.KeyPrefix, "/")
	if prefix == "" {
		prefix = DefaultImagePrefix
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &imageService{store: store, prefix: prefix, maxBytes: maxBytes, now: now}
}

func (s *imageService) Upload(ctx context.Context, name string, body io.Reader) (*UploadedImage, error) {
	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidImage)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrInvalidImage, s.maxBytes)
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, fmt.Errorf("%w: unsupported content type %s", ErrInvalidImage, mtype.String())
	}

	uploadedAt := s.now().UTC()
	key := fmt.Sprintf("%s/%d-%s%s", s.prefix, uploadedAt.UnixMilli(), uuid.NewString(), mtype.Extension())

	meta := ImageMetadata{
		Key:          key,
		ContentType:  mtype.String(),
		Size:         int64(len(data)),
		OriginalName: path.Base(strings.ReplaceAll(name, "\\", "/")),
		UploadedAt:   &uploadedAt,
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		meta.Width, meta.Height = cfg.Width, cfg.Height
	}

	err = s.store.Put(ctx, key, bytes.NewReader(data), storage.PutOptions{
		ContentType:  meta.ContentType,
		CacheControl: ImageCacheControl,
		Metadata:     encodeImageMetadata(meta),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return &UploadedImage{ImageMetadata: meta, URL: "/api/images/" + key}, nil
}

func (s *imageService) Get(ctx context.Context, key string) (*Image, error) {
	obj, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, translateStorage(err)
	}
	return &Image{ImageMetadata: decodeImageMetadata(obj.ObjectInfo), Body: obj.Body}, nil
}

func (s *imageService) Head(ctx context.Context, key string) (*ImageMetadata, error) {
	info, err := s.store.Head(ctx, key)
	if err != nil {
		return nil, translateStorage(err)
	}
	meta := decodeImageMetadata(*info)
	return &meta, nil
}

func (s *imageService) Delete(ctx context.Context, key string) error {
	if _, err := s.Head(ctx, key); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		return translateStorage(err)
	}
	return nil
}

func (s *imageService) List(ctx context.Context, limit int) ([]ImageMetadata, error) {
	if limit <= 0 || limit > maxImageList {
		limit = maxImageList
	}
	objects, err := s.store.List(ctx, s.prefix+"/", limit)
	if err != nil {
		return nil, translateStorage(err)
	}
	images := make([]ImageMetadata, 0, len(objects))
	for _, obj := range objects {
		images = append(images, decodeImageMetadata(obj))
	}
	return images, nil
}

func translateStorage(err error) error {
	if errors.Is(err, storage.ErrObjectNotFound) {
		return ErrImageNotFound
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

func encodeImageMetadata(meta ImageMetadata) map[string]string {
	out := map[string]string{
		"original-name": meta.OriginalName,
		"size":          strconv.FormatInt(meta.Size, 10),
	}
	if meta.UploadedAt != nil {
		out["uploaded-at"] = meta.UploadedAt.Format(time.RFC3339)
	}
	if meta.Width > 0 && meta.Height > 0 {
		out["width"] = strconv.Itoa(meta.Width)
		out["height"] = strconv.Itoa(meta.Height)
	}
	return out
}

// decodeImageMetadata reads back what encodeImageMetadata stored. The
// object's own size and type win over the user metadata.
func decodeImageMetadata(info storage.ObjectInfo) ImageMetadata {
	meta := ImageMetadata{
		Key:          info.Key,
		ContentType:  info.ContentType,
		Size:         info.Size,
		OriginalName: info.Metadata["original-name"],
		UploadedAt:   info.LastModified,
	}
	if meta.Size == 0 {
		meta.Size, _ = strconv.ParseInt(info.Metadata["size"], 10, 64)
	}
	if raw, ok := info.Metadata["uploaded-at"]; ok {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			meta.UploadedAt = &t
		}
	}
	meta.Width, _ = strconv.Atoi(info.Metadata["width"])
	meta.Height, _ = strconv.Atoi(info.Metadata["height"])
	return meta
}
