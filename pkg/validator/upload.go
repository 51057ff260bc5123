package validator

import (
	"errors"
	"net/http"
	"strings"
)

// Default upload constraints for media files.
const (
	DefaultMaxUploadSize = 20 * 1024 * 1024 // 20MB
)

// DefaultAllowedMimeTypes contains the default whitelist for uploads.
// Reference images for generation must be images; direct uploads may also be
// videos.
var DefaultAllowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
}

// UploadConfig defines constraints for file uploads.
type UploadConfig struct {
	MaxFileSize      int64
	AllowedMimeTypes map[string]bool
}

// DefaultUploadConfig returns the default upload configuration.
func DefaultUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxFileSize:      DefaultMaxUploadSize,
		AllowedMimeTypes: DefaultAllowedMimeTypes,
	}
}

// NewUploadConfig builds constraints from configured values, falling back to
// the defaults.
func NewUploadConfig(maxSize int64, allowedTypes []string) *UploadConfig {
	cfg := DefaultUploadConfig()
	if maxSize > 0 {
		cfg.MaxFileSize = maxSize
	}
	if len(allowedTypes) > 0 {
		allowed := make(map[string]bool, len(allowedTypes))
		for _, t := range allowedTypes {
			allowed[strings.ToLower(strings.TrimSpace(t))] = true
		}
		cfg.AllowedMimeTypes = allowed
	}
	return cfg
}

// ValidateFileSize checks if the file size is within the allowed limit.
func (c *UploadConfig) ValidateFileSize(size int64) error {
	if size <= 0 {
		return errors.New("file is empty")
	}
	if size > c.MaxFileSize {
		return errors.New("file too large")
	}
	return nil
}

// ValidateMimeType checks whether the content type is allowed, sniffing the
// payload when no type was provided.
func (c *UploadConfig) ValidateMimeType(contentType string, data []byte) error {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	// Strip parameters such as "; charset=utf-8"
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !c.AllowedMimeTypes[contentType] {
		return errors.New("unsupported file type: " + contentType)
	}
	return nil
}

// IsImageType reports whether the content type names an image format.
func IsImageType(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "image/")
}
