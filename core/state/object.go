package state

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"hikvision-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// ObjectBackend stores the JSON document as a single object in an S3/MinIO bucket.
// It lets several hosts of the same deployment share state.
type ObjectBackend struct {
	client storage.Client
	bucket string
	key    string
}

// NewObjectBackend creates an object backend. An empty key defaults to DefaultFileName.
func NewObjectBackend(client storage.Client, bucket, key string) *ObjectBackend {
	if key == "" {
		key = DefaultFileName
	}
	return &ObjectBackend{client: client, bucket: bucket, key: key}
}

// Name implements Backend.
func (b *ObjectBackend) Name() string { return "object" }

// Location returns bucket/key.
func (b *ObjectBackend) Location() string { return b.bucket + "/" + b.key }

// Load implements Backend.
func (b *ObjectBackend) Load(ctx context.Context) (map[string]string, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, b.key, minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to get state object %s: %w", b.Location(), err)
	}
	defer obj.Close()

	// Minio reports a missing object on first read, not on GetObject.
	data, err := io.ReadAll(obj)
	if err != nil {
		if isNotFound(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read state object %s: %w", b.Location(), err)
	}

	return decodeDocument(data, b.Location())
}

// Store implements Backend.
func (b *ObjectBackend) Store(ctx context.Context, entries map[string]string) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := b.client.MakeBucket(ctx, b.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", b.bucket, err)
		}
	}

	data, err := encodeDocument(entries)
	if err != nil {
		return err
	}

	_, err = b.client.PutObject(ctx, b.bucket, b.key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to put state object %s: %w", b.Location(), err)
	}
	return nil
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}
