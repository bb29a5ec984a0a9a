package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"go.uber.org/zap"
)

// ErrUnsupportedType is returned when the declared MIME type is not an
// accepted image format
var ErrUnsupportedType = errors.New("unsupported image type")

// maxFileNameLength bounds the sanitized portion of stored names
const maxFileNameLength = 64

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var unsafeFileNameChars = regexp.MustCompile(`[^\w.-]`)

// UploadStore writes uploaded images into a public-facing directory
type UploadStore struct {
	dir     string
	baseURL string
	logger  *zap.Logger
}

// NewUploadStore creates a store rooted at dir. Stored files are addressed
// under baseURL (e.g. "/uploads").
func NewUploadStore(dir, baseURL string, logger *zap.Logger) *UploadStore {
	return &UploadStore{dir: dir, baseURL: baseURL, logger: logger}
}

// IsAllowedType reports whether the declared MIME type is an accepted image format
func IsAllowedType(contentType string) bool {
	return allowedImageTypes[contentType]
}

// SanitizeFileName restricts a client-supplied filename to word characters,
// dots, and dashes, truncated to a bounded length. An empty result falls
// back to a timestamped placeholder.
func SanitizeFileName(name string) string {
	sanitized := unsafeFileNameChars.ReplaceAllString(name, "_")
	if len(sanitized) > maxFileNameLength {
		sanitized = sanitized[:maxFileNameLength]
	}
	if sanitized == "" {
		sanitized = fmt.Sprintf("upload-%d", time.Now().UnixMilli())
	}
	return sanitized
}

// Save validates the declared content type, writes the file under a
// timestamp-prefixed sanitized name, and returns the public URL path.
// Nothing is written for a disallowed type.
func (s *UploadStore) Save(originalName, contentType string, r io.Reader) (string, error) {
	if !IsAllowedType(contentType) {
		return "", ErrUnsupportedType
	}

	fileName := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), SanitizeFileName(originalName))

	// Directory creation failures surface on the write below
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.logger.Debug("Failed to create upload directory", zap.Error(err))
	}

	dst, err := os.Create(filepath.Join(s.dir, fileName))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return s.baseURL + "/" + fileName, nil
}

// Dir returns the directory files are stored in
func (s *UploadStore) Dir() string {
	return s.dir
}
