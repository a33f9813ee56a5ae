package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/HeyBatlle1/tos-salad/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ArchiveService stores raw ToS text snapshots in object storage, keyed by
// domain and content hash so each distinct revision is archived exactly
// once. Verification inputs never pass through here.
type ArchiveService struct {
	client *minio.Client
	bucket string
	config *config.MinioConfig
}

func NewArchiveService(cfg *config.MinioConfig) (*ArchiveService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &ArchiveService{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist
func (s *ArchiveService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// PutSnapshot archives one document revision as a plain-text object.
func (s *ArchiveService) PutSnapshot(ctx context.Context, domain, contentHash string, text []byte) error {
	objectName := fmt.Sprintf("%s/%s.txt", domain, contentHash)
	_, err := s.client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(text), int64(len(text)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"})
	if err != nil {
		return fmt.Errorf("failed to archive snapshot: %w", err)
	}
	return nil
}

// SnapshotURL generates a presigned URL for an archived snapshot with
// expiration.
func (s *ArchiveService) SnapshotURL(ctx context.Context, domain, contentHash string) (string, error) {
	objectName := fmt.Sprintf("%s/%s.txt", domain, contentHash)
	expiry := time.Duration(s.config.ExpireDays) * 24 * time.Hour
	url, err := s.client.PresignedGetObject(ctx, s.bucket, objectName, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}
