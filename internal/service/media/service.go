package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"campus-volunteer/internal/config"
	"campus-volunteer/internal/domain"
)

const MaxImageSize = 5 << 20

var ErrStorageUnavailable = errors.New("image storage is not configured")

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ObjectStore is the subset of *minio.Client used for problem images.
type ObjectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type UploadedImage struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

type Service interface {
	UploadProblemImage(ctx context.Context, userID uuid.UUID, fileSize int64, mimeType string, reader io.Reader) (*UploadedImage, error)
}

type service struct {
	store ObjectStore
	cfg   *config.Config
	clock domain.Clock
}

func NewService(store ObjectStore, cfg *config.Config, clock domain.Clock) Service {
	return &service{
		store: store,
		cfg:   cfg,
		clock: clock,
	}
}

func (s *service) UploadProblemImage(ctx context.Context, userID uuid.UUID, fileSize int64, mimeType string, reader io.Reader) (*UploadedImage, error) {
	mimeType = strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	ext, ok := allowedImageTypes[mimeType]
	if !ok {
		return nil, domain.NewValidationError("file", "only JPEG, PNG and WebP images are allowed")
	}
	if fileSize <= 0 || fileSize > MaxImageSize {
		return nil, domain.NewValidationError("file", "image must be between 1 byte and 5 MB")
	}

	if s.store == nil {
		return nil, ErrStorageUnavailable
	}

	storagePath := path.Join("problems", s.clock.Now().Format("2006/01"), userID.String(), uuid.NewString()+ext)

	_, err := s.store.PutObject(ctx, s.cfg.MinIOBucket, storagePath, reader, fileSize, minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to MinIO: %w", err)
	}

	return &UploadedImage{Path: storagePath, URL: s.publicURL(storagePath)}, nil
}

func (s *service) publicURL(storagePath string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	u := url.URL{
		Scheme: scheme,
		Host:   s.cfg.MinIOPublicEndpoint,
		Path:   "/" + s.cfg.MinIOBucket + "/" + storagePath,
	}
	return u.String()
}
