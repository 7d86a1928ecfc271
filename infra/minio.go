package infra

import (
	"context"
	"fmt"
	"io"

	"github.com/bqtran/filevault/config"
	"github.com/minio/madmin-go/v3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioClient struct {
	Admin     *madmin.AdminClient
	Client    *minio.Client
	Endpoint  string
	Bucket    string
	PublicURL string
}

func InitMinioClient(cfg *config.EnvConfig) *MinioClient {
	endpoint := cfg.Minio.Endpoint
	if endpoint == "" {
		panic("MinIO endpoint is not configured")
	}

	rootUser := cfg.Minio.RootUser
	if rootUser == "" {
		panic("MinIO root user is not configured")
	}

	rootPassword := cfg.Minio.RootPassword
	if rootPassword == "" {
		panic("MinIO root password is not configured")
	}

	madminClient, err := madmin.New(endpoint, rootUser, rootPassword, cfg.Minio.UseSSL)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO admin client: %v", err))
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(rootUser, rootPassword, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO client: %v", err))
	}

	return &MinioClient{
		Admin:     madminClient,
		Client:    minioClient,
		Endpoint:  endpoint,
		Bucket:    cfg.Minio.Bucket,
		PublicURL: cfg.Minio.PublicURL,
	}
}

// EnsureBucket creates the configured bucket if it doesn't exist and marks
// it for anonymous read so blob URLs are publicly fetchable.
func (m *MinioClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.Client.BucketExists(ctx, m.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := m.Client.MakeBucket(ctx, m.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	policy := fmt.Sprintf(`{
	"Version": "2012-10-17",
	"Statement": [
		{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}
	]
}`, m.Bucket)
	if err := m.Client.SetBucketPolicy(ctx, m.Bucket, policy); err != nil {
		return fmt.Errorf("failed to set bucket policy: %w", err)
	}
	return nil
}

// BlobURL returns the public fetch URL for a stored object key.
func (m *MinioClient) BlobURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", m.PublicURL, m.Bucket, key)
}

// PutObjectStream uploads an object under the given key and returns its
// public blob URL.
func (m *MinioClient) PutObjectStream(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error) {
	opts := minio.PutObjectOptions{
		ContentType: contentType,
	}

	_, err := m.Client.PutObject(ctx, m.Bucket, key, data, size, opts)
	if err != nil {
		return "", fmt.Errorf("failed to put object: %w", err)
	}
	return m.BlobURL(key), nil
}

// GetObjectStream streams an object without loading it into memory.
func (m *MinioClient) GetObjectStream(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	obj, err := m.Client.GetObject(ctx, m.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get object: %w", err)
	}

	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, 0, fmt.Errorf("failed to stat object: %w", err)
	}

	return obj, stat.Size, nil
}

// RemoveObject deletes an object. An already-missing object is treated as
// success so a delete can always converge.
func (m *MinioClient) RemoveObject(ctx context.Context, key string) error {
	err := m.Client.RemoveObject(ctx, m.Bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return nil
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// ServerHealthy reports whether the MinIO deployment answers admin calls.
func (m *MinioClient) ServerHealthy(ctx context.Context) error {
	if _, err := m.Admin.ServerInfo(ctx); err != nil {
		return fmt.Errorf("minio server info: %w", err)
	}
	return nil
}
