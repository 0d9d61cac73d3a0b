// Package storage handles venue image objects in S3-compatible storage.
// Clients upload through presigned PUT URLs; the stored object keys travel
// through venue records and are resolved back to presigned GET URLs on read.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"portal_da_fe_backend/platform/apperr"
	"portal_da_fe_backend/platform/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// PresignedURLTTL is the expiration for presigned upload and download URLs.
const PresignedURLTTL = 15 * time.Minute

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// PresignedURL is a time-limited URL plus the object key it addresses.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service stores venue images in MinIO.
type Service struct {
	client      *minio.Client
	bucket      string
	maxFileSize int64
}

// New creates the storage service from MinIO configuration.
func New(cfg config.MinIOConfig) (*Service, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("minio is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &Service{
		client:      client,
		bucket:      cfg.GetMinioBucketVenueImages(),
		maxFileSize: cfg.GetMinIOMaxFileSize(),
	}, nil
}

// EnsureBucket creates the venue images bucket when missing.
func (s *Service) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucket, err)
		}
	}
	return nil
}

// GenerateUploadURL creates a presigned PUT URL for one venue image. The
// object key embeds a random segment so concurrent uploads never collide.
func (s *Service) GenerateUploadURL(ctx context.Context, fileName, contentType string, sizeBytes int64) (*PresignedURL, error) {
	if _, ok := allowedImageTypes[contentType]; !ok {
		return nil, apperr.Validation("unsupported image type")
	}
	if sizeBytes <= 0 || sizeBytes > s.maxFileSize {
		return nil, apperr.Validation(fmt.Sprintf("file size must be between 1 and %d bytes", s.maxFileSize))
	}

	fileKey := s.buildKey(fileName, contentType)
	presigned, err := s.client.PresignedPutObject(ctx, s.bucket, fileKey, PresignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &PresignedURL{
		URL:       presigned.String(),
		FileKey:   fileKey,
		ExpiresAt: time.Now().Add(PresignedURLTTL),
	}, nil
}

// PresignedGetURL resolves a stored object key to a download URL.
// Implements the venues service's image store port.
func (s *Service) PresignedGetURL(ctx context.Context, fileKey string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = PresignedURLTTL
	}

	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, fileKey, expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return presigned.String(), nil
}

// Open streams a stored object. Callers close the reader.
func (s *Service) Open(ctx context.Context, fileKey string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, fileKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %w", fileKey, err)
	}
	return obj, nil
}

// Delete removes a stored object.
func (s *Service) Delete(ctx context.Context, fileKey string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, fileKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object %s: %w", fileKey, err)
	}
	return nil
}

func (s *Service) buildKey(fileName, contentType string) string {
	ext := path.Ext(fileName)
	if ext == "" {
		ext = allowedImageTypes[contentType]
	}
	base := strings.TrimSuffix(path.Base(fileName), ext)
	if base == "" || base == "." {
		base = "image"
	}
	return fmt.Sprintf("venues/%s_%s%s", base, uuid.New().String()[:8], ext)
}
