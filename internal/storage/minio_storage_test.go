package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMinio struct {
	bucketExistsFn func(ctx context.Context, bucketName string) (bool, error)
	makeBucketFn   func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	statObjectFn   func(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	getObjectFn    func(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	putObjectFn    func(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

func (m *mockMinio) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return m.bucketExistsFn(ctx, bucketName)
}
func (m *mockMinio) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.makeBucketFn(ctx, bucketName, opts)
}
func (m *mockMinio) StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	return m.statObjectFn(ctx, bucket, key, opts)
}
func (m *mockMinio) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error) {
	return m.getObjectFn(ctx, bucketName, objectName, opts)
}
func (m *mockMinio) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return m.putObjectFn(ctx, bucketName, objectName, reader, objectSize, opts)
}

func TestWithBucket(t *testing.T) {
	tests := []struct {
		name           string
		exists         bool
		existsErr      error
		makeErr        error
		wantMakeCalled bool
		wantErr        error
	}{
		{
			name:           "bucket exists, no create",
			exists:         true,
			wantMakeCalled: false,
		},
		{
			name:           "bucket does not exist, create succeeds",
			exists:         false,
			wantMakeCalled: true,
		},
		{
			name:      "BucketExists error bubbles up",
			existsErr: errors.New("exist fail"),
			wantErr:   ErrInternal,
		},
		{
			name:           "MakeBucket access denied",
			exists:         false,
			makeErr:        minio.ErrorResponse{Code: "AccessDenied"},
			wantMakeCalled: true,
			wantErr:        ErrUnauthorized,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			makeCalled := false

			mock := &mockMinio{
				bucketExistsFn: func(ctx context.Context, bucketName string) (bool, error) {
					return tc.exists, tc.existsErr
				},
				makeBucketFn: func(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
					makeCalled = true
					return tc.makeErr
				},
			}

			strg := &Strg{Client: mock}
			s, err := strg.WithBucket(context.Background(), "artifacts")

			assert.Equal(t, tc.wantMakeCalled, makeCalled)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "artifacts", s.bucketName)
		})
	}
}

func TestMinioStorage_Save(t *testing.T) {
	var gotBucket, gotKey, gotCT string
	var gotSize int64
	var gotBody []byte

	mock := &mockMinio{
		putObjectFn: func(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			gotBucket, gotKey, gotSize, gotCT = bucketName, objectName, objectSize, opts.ContentType
			gotBody, _ = io.ReadAll(reader)
			return minio.UploadInfo{}, nil
		},
	}
	s := &MinioStorage{client: mock, bucketName: "artifacts"}

	loc, err := s.Save(context.Background(), "abc.webp", []byte("RIFF"), "image/webp")
	require.NoError(t, err)
	assert.Equal(t, "artifacts/abc.webp", loc)
	assert.Equal(t, "artifacts", gotBucket)
	assert.Equal(t, "abc.webp", gotKey)
	assert.Equal(t, int64(4), gotSize)
	assert.Equal(t, "image/webp", gotCT)
	assert.True(t, bytes.Equal([]byte("RIFF"), gotBody))
}

func TestMinioStorage_SaveErrors(t *testing.T) {
	mock := &mockMinio{
		putObjectFn: func(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
			return minio.UploadInfo{}, minio.ErrorResponse{Code: "NoSuchBucket"}
		},
	}
	s := &MinioStorage{client: mock, bucketName: "gone"}

	_, err := s.Save(context.Background(), "a.png", []byte("x"), "image/png")
	assert.ErrorIs(t, err, ErrBucketNotFound)

	_, err = s.Save(context.Background(), "../a.png", []byte("x"), "image/png")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestMinioStorage_Open(t *testing.T) {
	obj := &minio.Object{}
	getCalled := false

	tests := []struct {
		name    string
		statErr error
		wantErr error
	}{
		{name: "found"},
		{name: "missing key", statErr: minio.ErrorResponse{Code: "NoSuchKey"}, wantErr: ErrObjectNotFound},
		{name: "other failure", statErr: errors.New("boom"), wantErr: ErrInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			getCalled = false
			mock := &mockMinio{
				statObjectFn: func(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
					return minio.ObjectInfo{Key: key}, tc.statErr
				},
				getObjectFn: func(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error) {
					getCalled = true
					return obj, nil
				},
			}
			s := &MinioStorage{client: mock, bucketName: "artifacts"}

			rc, err := s.Open(context.Background(), "a.png")
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.False(t, getCalled)
				return
			}
			require.NoError(t, err)
			assert.True(t, getCalled)
			assert.Same(t, obj, rc)
		})
	}
}
