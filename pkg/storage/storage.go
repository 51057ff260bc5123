package storage

// Package storage defines the object store abstraction for media files.
// Objects live in two logical buckets: a private bucket holding authoritative
// media (originals and generation results) and a public bucket holding cover
// thumbnails served from a fixed public domain without signing.

import (
	"context"
	"io"
	"time"
)

// Storage defines bucket-addressed object operations. Backends: local
// filesystem (dev, tests) and S3-compatible stores (AWS S3, Cloudflare R2,
// MinIO).
type Storage interface {
	// Put uploads an object.
	Put(ctx context.Context, bucket, key string, data io.Reader, contentType string, size int64) error

	// Get retrieves an object. The returned ReadCloser must be closed by the
	// caller.
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)

	// Delete removes an object.
	Delete(ctx context.Context, bucket, key string) error

	// Copy duplicates an object within the same bucket.
	Copy(ctx context.Context, bucket, srcKey, dstKey string) error

	// Exists checks whether an object is present.
	Exists(ctx context.Context, bucket, key string) (bool, error)

	// PresignGet returns a time-limited read URL for a private object.
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)

	// Type returns the storage backend identifier ("local" or "s3").
	Type() string
}
