package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"kaizen-ideas/internal/config"
	"kaizen-ideas/internal/domain"
)

// ObjectStore is the subset of *minio.Client used here.
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// File is one uploaded attachment before it is stored.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

func FromMultipart(fh *multipart.FileHeader) File {
	return File{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

type Service interface {
	UploadIdeaImages(ctx context.Context, files []File) ([]domain.IdeaImage, error)
	RemoveIdeaImages(ctx context.Context, images []domain.IdeaImage)
}

type service struct {
	store     ObjectStore
	cfg       *config.Config
	log       *zap.Logger
	now       func() time.Time
	maxImages int
	maxSize   int64
}

func NewService(store ObjectStore, cfg *config.Config, log *zap.Logger) Service {
	return &service{
		store:     store,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		maxImages: cfg.MaxImagesPerIdea,
		maxSize:   cfg.MaxImageSize,
	}
}

// UploadIdeaImages validates every file before storing any of them. If a
// store call fails, objects written by this call are removed again.
func (s *service) UploadIdeaImages(ctx context.Context, files []File) ([]domain.IdeaImage, error) {
	if len(files) == 0 {
		return []domain.IdeaImage{}, nil
	}
	if len(files) > s.maxImages {
		return nil, fmt.Errorf("%w: at most %d allowed", domain.ErrTooManyImages, s.maxImages)
	}
	for _, f := range files {
		if !strings.HasPrefix(f.ContentType, "image/") {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedMedia, f.Name)
		}
		if s.maxSize > 0 && f.Size > s.maxSize {
			return nil, fmt.Errorf("%w: %s", domain.ErrFileTooLarge, f.Name)
		}
	}

	images := make([]domain.IdeaImage, 0, len(files))
	for _, f := range files {
		img, err := s.put(ctx, f)
		if err != nil {
			s.RemoveIdeaImages(ctx, images)
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func (s *service) put(ctx context.Context, f File) (domain.IdeaImage, error) {
	now := s.now().UTC()
	objectName := fmt.Sprintf("ideas/%s/%s%s", now.Format("2006/01"), uuid.New().String(), strings.ToLower(filepath.Ext(f.Name)))

	reader, err := f.Open()
	if err != nil {
		return domain.IdeaImage{}, fmt.Errorf("failed to open upload: %w", err)
	}
	defer reader.Close()

	_, err = s.store.PutObject(ctx, s.cfg.MinIOBucket, objectName, reader, f.Size, minio.PutObjectOptions{
		ContentType: f.ContentType,
	})
	if err != nil {
		return domain.IdeaImage{}, fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	return domain.IdeaImage{
		Filename:     objectName,
		OriginalName: f.Name,
		MimeType:     f.ContentType,
		Size:         f.Size,
		UploadDate:   now,
		URL:          s.publicURL(objectName),
	}, nil
}

func (s *service) RemoveIdeaImages(ctx context.Context, images []domain.IdeaImage) {
	for _, img := range images {
		if err := s.store.RemoveObject(ctx, s.cfg.MinIOBucket, img.Filename, minio.RemoveObjectOptions{}); err != nil {
			s.log.Warn("failed to remove stored image", zap.String("object", img.Filename), zap.Error(err))
		}
	}
}

func (s *service) publicURL(objectName string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, (&url.URL{Path: objectName}).EscapedPath())
}
