// Package objectstore holds artifact stores that live outside Azure ML:
// an S3-compatible bucket via MinIO and the local filesystem.
package objectstore

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"

	"neurotrack-ml/internal/config"
	ports "neurotrack-ml/internal/core/ports/output"
)

type minioStore struct {
	client *minio.Client
	bucket string
}

func NewMinIOClient(cfg config.StorageConfig) (*minio.Client, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return client, nil
}

// NewMinIOStore returns a store writing to bucket, creating it on first use.
func NewMinIOStore(client *minio.Client, bucket string) ports.ArtifactStore {
	return &minioStore{client: client, bucket: bucket}
}

func (s *minioStore) Upload(ctx context.Context, localDir, modelName string) (string, error) {
	files, err := listFiles(localDir)
	if err != nil {
		return "", err
	}
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}

	prefix := objectPrefix(modelName, time.Now().UTC())
	for _, rel := range files {
		key := path.Join(prefix, filepath.ToSlash(rel))
		_, err := s.client.FPutObject(ctx, s.bucket, key, filepath.Join(localDir, rel), minio.PutObjectOptions{
			ContentType: "application/octet-stream",
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload to MinIO: %w", err)
		}
	}

	log.WithFields(log.Fields{
		"bucket": s.bucket,
		"prefix": prefix,
		"files":  len(files),
	}).Debug("artifact uploaded to object store")

	return fmt.Sprintf("s3://%s/%s", s.bucket, prefix), nil
}

func (s *minioStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// objectPrefix keys uploads by model and upload time so versions never
// overwrite each other.
func objectPrefix(modelName string, at time.Time) string {
	return path.Join(modelName, at.Format("20060102T150405.000000000Z"))
}
