package infra

import (
	"context"
	"fmt"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/tnqbao/gau-video-service/config"
)

// MinioClient reads the S3-compatible origin bucket that backs the CDN.
type MinioClient struct {
	Client   *minio.Client
	Endpoint string
	Bucket   string
}

func InitMinioClient(cfg *config.EnvConfig) *MinioClient {
	endpoint := cfg.Minio.Endpoint
	if endpoint == "" {
		panic("MinIO endpoint is not configured")
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.RootUser, cfg.Minio.RootPassword, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO client: %v", err))
	}

	exists, err := minioClient.BucketExists(context.Background(), cfg.Minio.Bucket)
	if err != nil {
		log.Printf("Warning: could not check MinIO bucket %s: %v", cfg.Minio.Bucket, err)
	} else if !exists {
		log.Printf("Warning: MinIO bucket %s does not exist", cfg.Minio.Bucket)
	}

	log.Println("Connected to MinIO:", endpoint)

	return &MinioClient{
		Client:   minioClient,
		Endpoint: endpoint,
		Bucket:   cfg.Minio.Bucket,
	}
}

// ObjectExists reports whether key is present in the origin bucket.
func (m *MinioClient) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := m.Client.StatObject(ctx, m.Bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return false, nil
	}
	return false, fmt.Errorf("failed to stat object: %w", err)
}
