package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"publicindex/pkg/domain"
)

// Disposition controls how a presigned URL asks the browser to handle the
// object: render inline or prompt a download under a given filename.
type Disposition struct {
	attachment bool
	filename   string
}

// Inline renders the object in the browser (in-page PDF reading).
func Inline() Disposition { return Disposition{} }

// Attachment forces a download prompt with the given filename.
func Attachment(filename string) Disposition {
	return Disposition{attachment: true, filename: filename}
}

func (d Disposition) header() string {
	if d.attachment {
		return fmt.Sprintf("attachment; filename=%q", d.filename)
	}
	return "inline"
}

// ObjectStore provides access to object storage. Operations are single
// attempt: failures surface as *domain.StorageError and leave no partial
// effects beyond the failed call itself (a failed Copy never touches the
// source).
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Copy(ctx context.Context, srcKey, dstKey string) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, disposition Disposition, expiry time.Duration) (string, error)
}

// MinioStore implements ObjectStore for MinIO/S3 compatible storage.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &MinioStore{client: client, bucket: bucket}, nil
}

// Put uploads an object.
func (m *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return &domain.StorageError{Op: "put", Key: key, Err: err}
	}
	return nil
}

// Get downloads an object into memory.
func (m *MinioStore) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, &domain.StorageError{Op: "get", Key: key, Err: err}
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, &domain.StorageError{Op: "get", Key: key, Err: err}
	}
	return data, nil
}

// Copy duplicates an object server-side. The source is left untouched.
func (m *MinioStore) Copy(ctx context.Context, srcKey, dstKey string) error {
	src := minio.CopySrcOptions{Bucket: m.bucket, Object: srcKey}
	dst := minio.CopyDestOptions{Bucket: m.bucket, Object: dstKey}
	if _, err := m.client.CopyObject(ctx, dst, src); err != nil {
		return &domain.StorageError{Op: "copy", Key: srcKey, Err: err}
	}
	return nil
}

// Delete removes an object.
func (m *MinioStore) Delete(ctx context.Context, key string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return &domain.StorageError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// PresignGet generates a time-boxed GET URL carrying the response
// disposition. URLs expire on their own and cannot be revoked earlier.
func (m *MinioStore) PresignGet(ctx context.Context, key string, disposition Disposition, expiry time.Duration) (string, error) {
	params := make(url.Values)
	params.Set("response-content-disposition", disposition.header())
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, params)
	if err != nil {
		return "", &domain.StorageError{Op: "presign", Key: key, Err: err}
	}
	return u.String(), nil
}
