package domain

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

// ErrObjectNotFound signals that no object exists at the requested storage
// path. Callers use it to distinguish missing content from transport errors.
var ErrObjectNotFound = errors.New("object not found")

// Backend is the contract every storage variant implements. A storage path is
// opaque to callers: it is produced by Upload and only ever handed back to the
// same backend.
type Backend interface {
	// Upload persists content under a path derived from tier, code and
	// filename, creating any needed namespace lazily. Any failure here is
	// fatal to the calling upload flow.
	Upload(ctx context.Context, content []byte, code, filename string, isPremium bool) (string, error)

	// Get retrieves the raw bytes, returning ErrObjectNotFound when the
	// object is absent.
	Get(ctx context.Context, storagePath string) ([]byte, error)

	// DownloadURL returns a client-usable retrieval locator. Both variants
	// route through the service's own download endpoint so the client
	// contract is identical regardless of backend.
	DownloadURL(storagePath string, expiry time.Duration) string

	// Delete removes the object. Idempotent: deleting an absent object is a
	// no-op returning false, never an error.
	Delete(ctx context.Context, storagePath string) bool

	// Exists probes for the object without downloading it. Errors are
	// reported as false.
	Exists(ctx context.Context, storagePath string) bool
}

// Tier returns the path namespace for a premium flag.
func Tier(isPremium bool) string {
	if isPremium {
		return "premium"
	}
	return "free"
}

// ObjectKey derives the storage path for an upload: {tier}/{code}/{filename}.
func ObjectKey(code, filename string, isPremium bool) string {
	return fmt.Sprintf("%s/%s/%s", Tier(isPremium), code, filename)
}

// APIDownloadURL maps a storage path back to the service's download endpoint.
func APIDownloadURL(storagePath string) string {
	parts := strings.Split(storagePath, "/")
	if len(parts) >= 2 {
		return "/api/download/" + parts[1]
	}
	return "/api/download/" + storagePath
}

// ContentTypeFor returns the MIME type for a filename based on its extension,
// defaulting to a generic octet-stream type.
func ContentTypeFor(filename string) string {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(filename), ".")) {
	case "pdf":
		return "application/pdf"
	case "epub":
		return "application/epub+zip"
	case "cbz":
		return "application/x-cbz"
	case "cbr":
		return "application/x-cbr"
	default:
		return "application/octet-stream"
	}
}
