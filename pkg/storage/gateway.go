package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Gateway layers the two logical buckets over a storage backend and resolves
// the two URL classes: short-lived signed URLs for private objects and
// deterministic public URLs for covers.
type Gateway struct {
	store         Storage
	privateBucket string
	publicBucket  string
	publicBaseURL string
	presignExpiry time.Duration
	cache         *URLCache
}

// GatewayOptions configures a Gateway.
type GatewayOptions struct {
	PrivateBucket string
	PublicBucket  string
	PublicBaseURL string
	PresignExpiry time.Duration
	Cache         *URLCache
}

// NewGateway builds a Gateway over the given backend.
func NewGateway(store Storage, opts GatewayOptions) (*Gateway, error) {
	if store == nil {
		return nil, fmt.Errorf("storage backend is required")
	}
	if opts.PrivateBucket == "" || opts.PublicBucket == "" {
		return nil, fmt.Errorf("private and public bucket names are required")
	}
	if opts.PresignExpiry <= 0 {
		opts.PresignExpiry = time.Hour
	}
	cache := opts.Cache
	if cache == nil {
		// Keep the cache window below the signature validity.
		cache = NewURLCache(nil, opts.PresignExpiry*5/6)
	}
	return &Gateway{
		store:         store,
		privateBucket: opts.PrivateBucket,
		publicBucket:  opts.PublicBucket,
		publicBaseURL: strings.TrimSuffix(opts.PublicBaseURL, "/"),
		presignExpiry: opts.PresignExpiry,
		cache:         cache,
	}, nil
}

// SignedURL returns a time-limited read URL for a private object, memoized
// per key.
func (g *Gateway) SignedURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	if url, ok := g.cache.Get(ctx, key); ok {
		return url, nil
	}
	url, err := g.store.PresignGet(ctx, g.privateBucket, key, g.presignExpiry)
	if err != nil {
		return "", fmt.Errorf("sign url for %s: %w", key, err)
	}
	g.cache.Set(ctx, key, url)
	return url, nil
}

// PublicURL returns the fixed public URL for a cover object. No signing, no
// expiry.
func (g *Gateway) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	return g.publicBaseURL + "/" + strings.TrimPrefix(key, "/")
}

// UploadPrivate stores an object in the private bucket.
func (g *Gateway) UploadPrivate(ctx context.Context, key string, data io.Reader, contentType string, size int64) error {
	return g.store.Put(ctx, g.privateBucket, key, data, contentType, size)
}

// CopyPrivate duplicates a private object under a new key.
func (g *Gateway) CopyPrivate(ctx context.Context, srcKey, dstKey string) error {
	return g.store.Copy(ctx, g.privateBucket, srcKey, dstKey)
}

// CopyCover duplicates a cover object under a new key.
func (g *Gateway) CopyCover(ctx context.Context, srcKey, dstKey string) error {
	return g.store.Copy(ctx, g.publicBucket, srcKey, dstKey)
}

// DeletePrivate removes a private object and drops its cached URL.
func (g *Gateway) DeletePrivate(ctx context.Context, key string) error {
	g.cache.Invalidate(ctx, key)
	return g.store.Delete(ctx, g.privateBucket, key)
}

// DeleteCover removes a cover object.
func (g *Gateway) DeleteCover(ctx context.Context, key string) error {
	return g.store.Delete(ctx, g.publicBucket, key)
}

// GetPrivate streams a private object.
func (g *Gateway) GetPrivate(ctx context.Context, key string) (io.ReadCloser, error) {
	return g.store.Get(ctx, g.privateBucket, key)
}

// Backend returns the underlying storage type identifier.
func (g *Gateway) Backend() string {
	return g.store.Type()
}
