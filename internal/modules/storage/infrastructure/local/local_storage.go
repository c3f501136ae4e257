package local

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/imagineread/lite-backend/internal/modules/storage/domain"
)

// LocalStorage implements the storage backend on the local filesystem.
// Development and self-hosted deployments use it; objects live under
// basePath/{tier}/{code}/{filename}.
type LocalStorage struct {
	basePath string
	logger   *slog.Logger
}

// NewLocalStorage creates a new local filesystem storage. The base path is
// cleaned so the prune guard in Delete compares like with like; Join-derived
// paths are always clean, a raw "./temp/uploads" is not.
func NewLocalStorage(basePath string, logger *slog.Logger) (*LocalStorage, error) {
	basePath = filepath.Clean(basePath)
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	logger.Info("local storage initialized", "path", basePath)

	return &LocalStorage{
		basePath: basePath,
		logger:   logger,
	}, nil
}

// Upload writes content to disk and returns the backend-opaque storage path.
func (l *LocalStorage) Upload(ctx context.Context, content []byte, code, filename string, isPremium bool) (string, error) {
	storagePath := domain.ObjectKey(code, filename, isPremium)
	fullPath := filepath.Join(l.basePath, filepath.FromSlash(storagePath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	l.logger.Info("uploaded", "path", storagePath, "bytes", len(content))
	return storagePath, nil
}

// Get reads the stored bytes, returning ErrObjectNotFound for missing files.
func (l *LocalStorage) Get(ctx context.Context, storagePath string) ([]byte, error) {
	content, err := os.ReadFile(l.fullPath(storagePath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return content, nil
}

// DownloadURL routes back into this service's download endpoint; the local
// variant does no real signing.
func (l *LocalStorage) DownloadURL(storagePath string, expiry time.Duration) string {
	return domain.APIDownloadURL(storagePath)
}

// Delete removes the file and prunes now-empty parent directories best-effort.
func (l *LocalStorage) Delete(ctx context.Context, storagePath string) bool {
	fullPath := l.fullPath(storagePath)

	if _, err := os.Stat(fullPath); err != nil {
		return false
	}
	if err := os.Remove(fullPath); err != nil {
		l.logger.Warn("failed to delete file", "path", storagePath, "error", err)
		return false
	}

	// Remove fails on non-empty directories, which is exactly the
	// best-effort prune wanted here.
	dir := filepath.Dir(fullPath)
	for dir != l.basePath && os.Remove(dir) == nil {
		dir = filepath.Dir(dir)
	}

	l.logger.Info("deleted", "path", storagePath)
	return true
}

// Exists reports whether the file is present without reading it.
func (l *LocalStorage) Exists(ctx context.Context, storagePath string) bool {
	_, err := os.Stat(l.fullPath(storagePath))
	return err == nil
}

func (l *LocalStorage) fullPath(storagePath string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(storagePath))
}
