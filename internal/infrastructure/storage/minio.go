package storage

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/scribeflow/scribeflow/pkg/config"
)

// ArchiveClient stores generated summaries and transcript exports in an
// S3-compatible bucket. Objects are keyed by meeting id.
type ArchiveClient struct {
	client *minio.Client
	bucket string
}

// NewArchiveClient creates the archive client and ensures the bucket exists
func NewArchiveClient(cfg config.StorageConfig) (*ArchiveClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	client := &ArchiveClient{
		client: minioClient,
		bucket: cfg.BucketName,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}
	return client, nil
}

func (a *ArchiveClient) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// StoreSummary uploads one generated summary and returns its object key
func (a *ArchiveClient) StoreSummary(ctx context.Context, meetingID uuid.UUID, command string, content string) (string, error) {
	objectName := fmt.Sprintf("meetings/%s/%s-%d.txt", meetingID, command, time.Now().Unix())
	data := []byte(content)

	_, err := a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload summary: %w", err)
	}
	return objectName, nil
}

// StoreTranscriptExport uploads a full transcript export for a meeting
func (a *ArchiveClient) StoreTranscriptExport(ctx context.Context, meetingID uuid.UUID, content string) (string, error) {
	objectName := fmt.Sprintf("meetings/%s/transcript.txt", meetingID)
	data := []byte(content)

	_, err := a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload transcript export: %w", err)
	}
	return objectName, nil
}
