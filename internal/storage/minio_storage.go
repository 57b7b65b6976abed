package storage

import (
	"bytes"
	"context"
	"io"

	"github.com/fhuszti/media-converter-go/internal/logger"
	"github.com/fhuszti/media-converter-go/internal/port"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage stores artifacts as objects of a single bucket.
type MinioStorage struct {
	client     minioClient
	bucketName string
}

type Strg struct {
	Client minioClient
}

// compile-time check: *MinioStorage must satisfy port.ArtifactSink
var _ port.ArtifactSink = (*MinioStorage)(nil)

func NewMinioClient(endpoint, accessKey, secretKey string, useSSL bool) (*Strg, error) {
	logger.Info(context.Background(), "initialising minio client...", "endpoint", endpoint)
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return &Strg{Client: client}, nil
}

// WithBucket returns a sink bound to bucket, creating the bucket if needed.
func (c *Strg) WithBucket(ctx context.Context, bucket string) (*MinioStorage, error) {
	ok, err := c.Client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, mapMinioErr(err)
	}
	if !ok {
		logger.Warnf(ctx, "⚠️ bucket %q does not exist, creating it...", bucket)
		if err := c.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, mapMinioErr(err)
		}
	}
	return &MinioStorage{client: c.Client, bucketName: bucket}, nil
}

// Save uploads data as object key and returns `{bucket}/{key}`.
func (s *MinioStorage) Save(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	logger.Debugf(ctx, "saving artifact %q into bucket %q...", key, s.bucketName)

	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", mapMinioErr(err)
	}
	return s.bucketName + "/" + key, nil
}

// Open streams object key. Missing objects are reported up front instead of
// on the first read.
func (s *MinioStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	logger.Debugf(ctx, "getting artifact %q from bucket %q...", key, s.bucketName)

	if _, err := s.client.StatObject(ctx, s.bucketName, key, minio.StatObjectOptions{}); err != nil {
		return nil, mapMinioErr(err)
	}
	obj, err := s.client.GetObject(ctx, s.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinioErr(err)
	}
	return obj, nil
}
