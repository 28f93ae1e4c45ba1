// Package storage persists uploaded product and logo images on local disk.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"food-court/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxFileSize is the upload size ceiling (5MB).
const MaxFileSize = 5 * 1024 * 1024

// allowedMimes maps accepted image content types to the stored extension.
var allowedMimes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// AllowedMime reports whether the declared content type is accepted.
func AllowedMime(mime string) bool {
	_, ok := allowedMimes[mime]
	return ok
}

// FileStore writes uploaded images to a directory under random filenames.
// Writes happen outside any database transaction; an orphaned file left by
// a later failure is accepted and only logged.
type FileStore struct {
	dir    string
	logger *zap.Logger
}

// NewFileStore creates the upload directory if needed and returns a store
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// Dir returns the directory files are stored in
func (s *FileStore) Dir() string {
	return s.dir
}

// Save validates the declared content type and size, then stores the file
// under a uuid-based name and returns that name.
func (s *FileStore) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	mime := header.Header.Get("Content-Type")
	ext, ok := allowedMimes[mime]
	if !ok {
		return "", domain.Validationf("invalid image format")
	}

	if header.Size > MaxFileSize {
		return "", domain.Validationf("file exceeds the 5MB size limit")
	}

	if origExt := filepath.Ext(header.Filename); origExt != "" {
		ext = origExt
	}
	filename := uuid.New().String() + ext

	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("failed to create stored file: %w", err)
	}
	defer dst.Close()

	// LimitReader guards against a size larger than the declared header.
	written, err := io.Copy(dst, io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		s.Remove(filename)
		return "", fmt.Errorf("failed to write stored file: %w", err)
	}
	if written > MaxFileSize {
		s.Remove(filename)
		return "", domain.Validationf("file exceeds the 5MB size limit")
	}

	s.logger.Debug("Stored uploaded file",
		zap.String("filename", filename),
		zap.Int64("bytes", written),
	)

	return filename, nil
}

// Remove deletes a stored file, logging rather than failing on error
func (s *FileStore) Remove(filename string) {
	if filename == "" {
		return
	}
	if err := os.Remove(filepath.Join(s.dir, filename)); err != nil {
		s.logger.Warn("Failed to remove stored file",
			zap.String("filename", filename),
			zap.Error(err),
		)
	}
}
