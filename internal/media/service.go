package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ketensuites/keten-backend/internal/pkg/storage"
)

const (
	DefaultMaxSize = 10 << 20

	displayMaxWidth  = 1920
	displayMaxHeight = 1920
	thumbWidth       = 480
	thumbHeight      = 320
)

// ImageTypes are the upload formats accepted for listing photos.
var ImageTypes = []string{"image/jpeg", "image/png", "image/gif"}

type UploadInput struct {
	File         *multipart.FileHeader
	UploadedBy   string
	MaxSizeBytes int64
	// AllowedTypes is matched against the sniffed content type. Empty allows anything.
	AllowedTypes []string
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*Media, error)
	Get(ctx context.Context, id string) (*Media, error)
	Open(ctx context.Context, id string) (io.ReadCloser, *Media, error)
	OpenThumbnail(ctx context.Context, id string) (io.ReadCloser, *Media, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo    Repository
	storage storage.Storage
	images  *storage.ImageProcessor
	logger  *zap.Logger
}

func NewService(repo Repository, store storage.Storage, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		repo:    repo,
		storage: store,
		images:  storage.NewImageProcessor(),
		logger:  logger,
	}
}

func allowed(contentType string, types []string) bool {
	if len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == contentType {
			return true
		}
	}
	return false
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*Media, error) {
	maxSize := in.MaxSizeBytes
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if in.File.Size > maxSize {
		return nil, ErrFileTooLarge
	}

	src, err := in.File.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(content)) > maxSize {
		return nil, ErrFileTooLarge
	}

	// The client's header is not trusted.
	contentType := http.DetectContentType(content)
	if !allowed(contentType, in.AllowedTypes) {
		return nil, ErrUnsupportedType
	}

	m := &Media{
		ID:          uuid.NewString(),
		UploadedBy:  in.UploadedBy,
		Filename:    filepath.Base(in.File.Filename),
		ContentType: contentType,
	}
	dir := fmt.Sprintf("media/%s", m.ID[:2])

	var thumb []byte
	if strings.HasPrefix(contentType, "image/") {
		img, err := s.images.Decode(bytes.NewReader(content))
		if err != nil {
			return nil, ErrUnsupportedType
		}
		if content, err = s.images.Fit(img, displayMaxWidth, displayMaxHeight); err != nil {
			return nil, err
		}
		if thumb, err = s.images.Thumbnail(img, thumbWidth, thumbHeight); err != nil {
			return nil, err
		}

		if cfg, _, err := image.DecodeConfig(bytes.NewReader(content)); err == nil {
			m.Width, m.Height = cfg.Width, cfg.Height
		}
		m.ContentType = "image/jpeg"
		m.StoragePath = fmt.Sprintf("%s/%s.jpg", dir, m.ID)
	} else {
		m.StoragePath = fmt.Sprintf("%s/%s%s", dir, m.ID, strings.ToLower(filepath.Ext(m.Filename)))
	}
	m.Size = int64(len(content))

	if err := s.storage.Save(ctx, m.StoragePath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("save media: %w", err)
	}
	if thumb != nil {
		path := fmt.Sprintf("%s/%s_thumb.jpg", dir, m.ID)
		if err := s.storage.Save(ctx, path, bytes.NewReader(thumb)); err != nil {
			s.logger.Warn("thumbnail not stored", zap.String("media_id", m.ID), zap.Error(err))
		} else {
			m.ThumbnailPath = &path
		}
	}

	if err := s.repo.Create(ctx, m); err != nil {
		s.removeObjects(ctx, m)
		return nil, err
	}
	return m, nil
}

func (s *service) removeObjects(ctx context.Context, m *Media) {
	if err := s.storage.Delete(ctx, m.StoragePath); err != nil {
		s.logger.Warn("media object not removed", zap.String("path", m.StoragePath), zap.Error(err))
	}
	if m.ThumbnailPath != nil {
		if err := s.storage.Delete(ctx, *m.ThumbnailPath); err != nil {
			s.logger.Warn("media thumbnail not removed", zap.String("path", *m.ThumbnailPath), zap.Error(err))
		}
	}
}

func (s *service) Get(ctx context.Context, id string) (*Media, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) open(ctx context.Context, path string) (io.ReadCloser, error) {
	rc, err := s.storage.Open(ctx, path)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	return rc, err
}

func (s *service) Open(ctx context.Context, id string) (io.ReadCloser, *Media, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.open(ctx, m.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return rc, m, nil
}

func (s *service) OpenThumbnail(ctx context.Context, id string) (io.ReadCloser, *Media, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if m.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}
	rc, err := s.open(ctx, *m.ThumbnailPath)
	if err != nil {
		return nil, nil, err
	}
	return rc, m, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeObjects(ctx, m)
	return nil
}
