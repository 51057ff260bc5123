// Package local implements the local filesystem storage adapter, used in
// development and tests. Buckets map to top-level directories under the base
// path.
package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Storage implements the storage.Storage interface using the local filesystem.
type Storage struct {
	basePath  string
	urlPrefix string
}

// New creates a new local storage adapter. basePath is the root directory for
// stored objects; urlPrefix is prepended to generated read URLs (local files
// cannot be truly presigned, so the URL is just a deterministic path).
func New(basePath, urlPrefix string) (*Storage, error) {
	if basePath == "" {
		basePath = "data/objects"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Storage{
		basePath:  basePath,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}, nil
}

// Put writes an object to the filesystem.
func (s *Storage) Put(ctx context.Context, bucket, key string, data io.Reader, contentType string, size int64) error {
	fullPath, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		os.Remove(fullPath)
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// Get reads an object from the filesystem.
func (s *Storage) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	fullPath, err := s.objectPath(bucket, key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object not found: %s/%s", bucket, key)
		}
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// Delete removes an object from the filesystem. Deleting a missing object is
// not an error.
func (s *Storage) Delete(ctx context.Context, bucket, key string) error {
	fullPath, err := s.objectPath(bucket, key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// Copy duplicates an object within the same bucket.
func (s *Storage) Copy(ctx context.Context, bucket, srcKey, dstKey string) error {
	src, err := s.Get(ctx, bucket, srcKey)
	if err != nil {
		return err
	}
	defer src.Close()
	return s.Put(ctx, bucket, dstKey, src, "", 0)
}

// Exists checks whether an object is present.
func (s *Storage) Exists(ctx context.Context, bucket, key string) (bool, error) {
	fullPath, err := s.objectPath(bucket, key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat file: %w", err)
	}
	return true, nil
}

// PresignGet returns a deterministic read URL. Local storage has no signing;
// the expiry is accepted for interface compatibility and ignored.
func (s *Storage) PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if _, err := s.objectPath(bucket, key); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s", s.urlPrefix, bucket, key), nil
}

// Type returns "local" as the storage type identifier.
func (s *Storage) Type() string {
	return "local"
}

// objectPath resolves a bucket/key pair to a filesystem path, rejecting keys
// that would escape the base directory.
func (s *Storage) objectPath(bucket, key string) (string, error) {
	if bucket == "" || key == "" {
		return "", fmt.Errorf("bucket and key are required")
	}
	cleaned := filepath.Clean(filepath.Join(bucket, key))
	if strings.HasPrefix(cleaned, "..") {
		return "", fmt.Errorf("invalid object key: %s", key)
	}
	return filepath.Join(s.basePath, cleaned), nil
}
