package storage

import (
	"blogapi/internal/config"
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOClient keeps files as objects in one bucket.
type MinIOClient struct {
	client *minio.Client
	bucket string
}

func NewMinIOClient(ctx context.Context, cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("error checking bucket %s: %w", cfg.BucketName, err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region})
		if err != nil {
			return nil, fmt.Errorf("error creating bucket %s: %w", cfg.BucketName, err)
		}
	}

	return &MinIOClient{client: client, bucket: cfg.BucketName}, nil
}

func (m *MinIOClient) Save(ctx context.Context, originalName string, file io.Reader, maxSize int64) (string, error) {
	data, err := readLimited(file, maxSize)
	if err != nil {
		return "", err
	}

	name := GenerateName(originalName)

	_, err = m.client.PutObject(ctx, m.bucket, name, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType: mimetype.Detect(data).String(),
			UserMetadata: map[string]string{
				"original-filename": originalName,
				"uploaded-at":       time.Now().Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", fmt.Errorf("error uploading to MinIO: %w", err)
	}

	return name, nil
}

// Delete checks the object first since RemoveObject succeeds on missing keys.
func (m *MinIOClient) Delete(ctx context.Context, name string) error {
	if !validName(name) {
		return ErrInvalidName
	}

	if _, err := m.client.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{}); err != nil {
		if isNoSuchKey(err) {
			return fmt.Errorf("%s: %w", name, ErrNotExist)
		}
		return fmt.Errorf("error checking object in MinIO: %w", err)
	}

	err := m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{GovernanceBypass: true})
	if err != nil {
		return fmt.Errorf("error deleting from MinIO: %w", err)
	}

	return nil
}

func (m *MinIOClient) Open(ctx context.Context, name string) (*Object, error) {
	if !validName(name) {
		return nil, ErrInvalidName
	}

	obj, err := m.client.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("error reading from MinIO: %w", err)
	}

	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotExist)
		}
		return nil, fmt.Errorf("error reading object info from MinIO: %w", err)
	}

	return &Object{
		ReadCloser:  obj,
		ContentType: info.ContentType,
		Size:        info.Size,
	}, nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
