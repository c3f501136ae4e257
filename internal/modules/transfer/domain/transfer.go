package domain

import (
	"path"
	"strings"
	"time"
)

// AllowedFileTypes is the closed set of document types the service accepts.
var AllowedFileTypes = map[string]struct{}{
	"pdf":  {},
	"cbz":  {},
	"cbr":  {},
	"epub": {},
}

// FileTypeFromName extracts the normalized extension from a filename and
// reports whether it is one of the allowed document types.
func FileTypeFromName(filename string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	_, ok := AllowedFileTypes[ext]
	return ext, ok
}

// Transfer binds a code to stored bytes and their lifecycle. One record per
// successful upload; the JSON field names are the persisted document layout.
type Transfer struct {
	Code          string     `json:"code" db:"code"`
	OriginalName  string     `json:"originalName" db:"original_name"`
	FileType      string     `json:"fileType" db:"file_type"`
	FileSizeBytes int64      `json:"fileSizeBytes" db:"file_size_bytes"`
	StoragePath   string     `json:"storagePath" db:"storage_path"`
	IsPremium     bool       `json:"isPremium" db:"is_premium"`
	UserID        string     `json:"userId,omitempty" db:"user_id"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	ExpiresAt     *time.Time `json:"expiresAt" db:"expires_at"`
	DownloadCount int64      `json:"downloadCount" db:"download_count"`
}

// NewTransferParams carries the inputs for constructing a Transfer.
type NewTransferParams struct {
	Code          string
	OriginalName  string
	FileType      string
	FileSizeBytes int64
	StoragePath   string
	IsPremium     bool
	UserID        string

	// CreatedAt defaults to the current UTC time when zero.
	CreatedAt time.Time

	// FreeExpiry is the lifetime granted to free-tier transfers.
	FreeExpiry time.Duration
}

// NewTransfer constructs a Transfer and applies the expiry rule: premium
// transfers never expire, free transfers expire FreeExpiry after creation.
func NewTransfer(p NewTransferParams) *Transfer {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	var expiresAt *time.Time
	if !p.IsPremium {
		e := createdAt.Add(p.FreeExpiry)
		expiresAt = &e
	}

	return &Transfer{
		Code:          p.Code,
		OriginalName:  p.OriginalName,
		FileType:      p.FileType,
		FileSizeBytes: p.FileSizeBytes,
		StoragePath:   p.StoragePath,
		IsPremium:     p.IsPremium,
		UserID:        p.UserID,
		CreatedAt:     createdAt,
		ExpiresAt:     expiresAt,
	}
}

// IsExpiredAt reports whether the transfer is expired at the given instant.
// A transfer expiring exactly at now is not yet expired.
func (t *Transfer) IsExpiredAt(now time.Time) bool {
	return t.ExpiresAt != nil && now.After(*t.ExpiresAt)
}

// IsExpired reports whether the transfer is expired right now.
func (t *Transfer) IsExpired() bool {
	return t.IsExpiredAt(time.Now().UTC())
}
