package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Hrishith30/marketplace/internal/listing/domain"
	"github.com/Hrishith30/marketplace/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// S3Storage stores listing photos in a MinIO/S3 bucket and hands back
// publicly resolvable URLs. It implements domain.Storage.
type S3Storage struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

func NewS3Storage(endpoint, accessKey, secretKey, bucketName string, useSSL bool, log *logger.Logger) (*S3Storage, error) {
	log.Info("Initializing MinIO storage",
		zap.String("endpoint", endpoint),
		zap.String("bucket", bucketName),
		zap.Bool("use_ssl", useSSL))

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Error("Failed to create MinIO client", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	// Create the bucket if it doesn't exist yet.
	if err := client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{}); err != nil {
		exists, errBucketExists := client.BucketExists(context.Background(), bucketName)
		if errBucketExists == nil && exists {
			log.Info("Bucket already exists", zap.String("bucket", bucketName))
		} else {
			log.Error("Failed to make or verify bucket",
				zap.String("bucket", bucketName),
				zap.NamedError("make_bucket_error", err),
				zap.NamedError("check_exists_error", errBucketExists))
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", bucketName, err, errBucketExists)
		}
	}

	return &S3Storage{
		client: client,
		bucket: bucketName,
		logger: log.Named("S3Storage"),
	}, nil
}

// Upload stores one photo under a fresh UUID key, keeping the original
// extension, and returns the public URL of the stored object.
func (s *S3Storage) Upload(ctx context.Context, originalFileName string, data []byte) (string, error) {
	ext := filepath.Ext(originalFileName)
	objectKey := fmt.Sprintf("photos/%s%s", uuid.New().String(), ext)

	s.logger.Info("Uploading photo",
		zap.String("bucket", s.bucket),
		zap.String("object_key", objectKey),
		zap.String("original_filename", originalFileName),
		zap.Int("size_bytes", len(data)))

	_, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("bucket", s.bucket), zap.String("key", objectKey), zap.Error(err))
		return "", fmt.Errorf("%w: failed to upload object %s to bucket %s: %v", domain.ErrStorage, objectKey, s.bucket, err)
	}

	fileURL := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectKey)
	s.logger.Info("Photo uploaded", zap.String("url", fileURL))
	return fileURL, nil
}

// Remove deletes a previously uploaded object given the URL Upload
// returned. It exists so a failed listing insert can clean up the photos
// it already stored instead of orphaning them.
func (s *S3Storage) Remove(ctx context.Context, objectURL string) error {
	objectKey, err := s.objectKeyFromURL(objectURL)
	if err != nil {
		return err
	}

	if err := s.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		s.logger.Error("RemoveObject failed", zap.String("bucket", s.bucket), zap.String("key", objectKey), zap.Error(err))
		return fmt.Errorf("%w: failed to remove object %s from bucket %s: %v", domain.ErrStorage, objectKey, s.bucket, err)
	}
	s.logger.Info("Photo removed", zap.String("bucket", s.bucket), zap.String("key", objectKey))
	return nil
}

func (s *S3Storage) objectKeyFromURL(objectURL string) (string, error) {
	prefix := fmt.Sprintf("%s/%s/", s.client.EndpointURL().String(), s.bucket)
	if !strings.HasPrefix(objectURL, prefix) {
		return "", fmt.Errorf("%w: URL %q does not belong to bucket %s", domain.ErrStorage, objectURL, s.bucket)
	}
	return strings.TrimPrefix(objectURL, prefix), nil
}
