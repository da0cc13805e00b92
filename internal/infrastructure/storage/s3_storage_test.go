package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func newTestS3Config() *config.StorageConfig {
	return &config.StorageConfig{
		Enabled:         true,
		Bucket:          "supplychain-test",
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		Region:          "ap-south-1",
		Endpoint:        "http://localhost:9000",
		UsePathStyle:    true,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		cfg := newTestS3Config()
		cfg.Bucket = ""
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing credentials return error", func(t *testing.T) {
		cfg := newTestS3Config()
		cfg.SecretAccessKey = ""
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "credentials are required")
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		cfg := newTestS3Config()
		cfg.PresignExpiry = time.Hour
		storage, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, "supplychain-test", storage.Bucket())
		assert.Equal(t, time.Hour, storage.presignExpiry)
	})

	t.Run("default presign expiration is 15 minutes", func(t *testing.T) {
		storage, err := NewS3ObjectStorage(newTestS3Config())
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, storage.presignExpiry)
	})

	t.Run("endpoint without scheme is accepted", func(t *testing.T) {
		cfg := newTestS3Config()
		cfg.Endpoint = "minio.internal:9000"
		_, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
	})
}

func TestS3ObjectStorageOptions(t *testing.T) {
	storage, err := NewS3ObjectStorage(newTestS3Config(),
		WithLogger(zaptest.NewLogger(t)),
		WithPresignExpiration(time.Hour),
	)
	require.NoError(t, err)
	assert.NotNil(t, storage.logger)
	assert.Equal(t, time.Hour, storage.presignExpiry)
}

func TestS3ObjectStorage_GenerateDownloadURL(t *testing.T) {
	storage, err := NewS3ObjectStorage(newTestS3Config())
	require.NoError(t, err)

	t.Run("empty storage key returns error", func(t *testing.T) {
		url, _, err := storage.GenerateDownloadURL(context.Background(), "", time.Minute)
		assert.ErrorIs(t, err, errKeyRequired)
		assert.Empty(t, url)
	})

	t.Run("generates presigned path-style URL", func(t *testing.T) {
		url, expiresAt, err := storage.GenerateDownloadURL(context.Background(), "qrcodes/abc.txt", time.Hour)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "http://localhost:9000/supplychain-test/qrcodes/abc.txt"))
		assert.Contains(t, url, "X-Amz-Signature=")
		assert.Contains(t, url, "X-Amz-Expires=3600")
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)
	})

	t.Run("uses default expiration when not provided", func(t *testing.T) {
		url, _, err := storage.GenerateDownloadURL(context.Background(), "invoices/x.pdf", 0)
		require.NoError(t, err)
		assert.Contains(t, url, "X-Amz-Expires=900")
	})
}

func TestS3ObjectStorage_KeyValidation(t *testing.T) {
	storage, err := NewS3ObjectStorage(newTestS3Config())
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, storage.Upload(ctx, "", []byte("x"), "text/plain"), errKeyRequired)
	assert.ErrorIs(t, storage.DeleteObject(ctx, ""), errKeyRequired)

	exists, err := storage.ObjectExists(ctx, "")
	assert.ErrorIs(t, err, errKeyRequired)
	assert.False(t, exists)
}

func TestNormalizeEndpoint(t *testing.T) {
	got, err := normalizeEndpoint("minio.internal:9000")
	require.NoError(t, err)
	assert.Equal(t, "https://minio.internal:9000", got)

	got, err = normalizeEndpoint("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = normalizeEndpoint("http://")
	assert.Error(t, err)
}

// fakeS3 keeps objects in a map and fails calls listed in failures
type fakeS3 struct {
	bucketExists bool
	objects      map[string][]byte
	types        map[string]string
	failures     map[string]error
	created      int
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}, failures: map[string]error{}}
}

func (f *fakeS3) HeadBucket(_ context.Context, _ *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if err := f.failures["HeadBucket"]; err != nil {
		return nil, err
	}
	if !f.bucketExists {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(_ context.Context, _ *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	if err := f.failures["CreateBucket"]; err != nil {
		return nil, err
	}
	f.created++
	f.bucketExists = true
	return &s3.CreateBucketOutput{}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if err := f.failures["HeadObject"]; err != nil {
		return nil, err
	}
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func newFakeStore(api *fakeS3) *S3ObjectStorage {
	return &S3ObjectStorage{api: api, bucket: "supplychain-test", presignExpiry: time.Minute, logger: zap.NewNop()}
}

func TestS3ObjectStorage_EnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a missing bucket once", func(t *testing.T) {
		api := newFakeS3()
		store := newFakeStore(api)
		require.NoError(t, store.EnsureBucket(ctx))
		require.NoError(t, store.EnsureBucket(ctx))
		assert.Equal(t, 1, api.created)
	})

	t.Run("bucket already owned is fine", func(t *testing.T) {
		api := newFakeS3()
		api.failures["CreateBucket"] = &types.BucketAlreadyOwnedByYou{}
		assert.NoError(t, newFakeStore(api).EnsureBucket(ctx))
	})

	t.Run("other head errors are returned", func(t *testing.T) {
		api := newFakeS3()
		api.failures["HeadBucket"] = assert.AnError
		err := newFakeStore(api).EnsureBucket(ctx)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Zero(t, api.created)
	})
}

func TestS3ObjectStorage_ObjectLifecycle(t *testing.T) {
	ctx := context.Background()
	api := newFakeS3()
	store := newFakeStore(api)

	require.NoError(t, store.Upload(ctx, "invoices/INV-1.pdf", []byte("%PDF-1.4"), "application/pdf"))
	assert.Equal(t, "%PDF-1.4", string(api.objects["invoices/INV-1.pdf"]))
	assert.Equal(t, "application/pdf", api.types["invoices/INV-1.pdf"])

	exists, err := store.ObjectExists(ctx, "invoices/INV-1.pdf")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.DeleteObject(ctx, "invoices/INV-1.pdf"))
	exists, err = store.ObjectExists(ctx, "invoices/INV-1.pdf")
	require.NoError(t, err)
	assert.False(t, exists)

	api.failures["HeadObject"] = assert.AnError
	_, err = store.ObjectExists(ctx, "qrcodes/a.txt")
	assert.ErrorIs(t, err, assert.AnError)
}
