package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransfer_FreeTierExpiry(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	transfer := NewTransfer(NewTransferParams{
		Code:          "ABCD2345",
		OriginalName:  "book.pdf",
		FileType:      "pdf",
		FileSizeBytes: 1000,
		StoragePath:   "free/ABCD2345/book.pdf",
		IsPremium:     false,
		CreatedAt:     createdAt,
		FreeExpiry:    24 * time.Hour,
	})

	require.NotNil(t, transfer.ExpiresAt)
	assert.Equal(t, createdAt.Add(24*time.Hour), *transfer.ExpiresAt)
	assert.Equal(t, createdAt, transfer.CreatedAt)
	assert.EqualValues(t, 0, transfer.DownloadCount)
}

func TestNewTransfer_PremiumNeverExpires(t *testing.T) {
	transfer := NewTransfer(NewTransferParams{
		Code:       "ABCD2345",
		IsPremium:  true,
		CreatedAt:  time.Now().UTC(),
		FreeExpiry: 24 * time.Hour,
	})

	assert.Nil(t, transfer.ExpiresAt)
	assert.False(t, transfer.IsExpiredAt(time.Now().UTC().Add(1000*time.Hour)))
}

func TestNewTransfer_DefaultsCreatedAt(t *testing.T) {
	before := time.Now().UTC()
	transfer := NewTransfer(NewTransferParams{Code: "ABCD2345", FreeExpiry: time.Hour})
	after := time.Now().UTC()

	assert.False(t, transfer.CreatedAt.Before(before))
	assert.False(t, transfer.CreatedAt.After(after))
}

func TestIsExpiredAt_StrictBoundary(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	transfer := NewTransfer(NewTransferParams{
		Code:       "ABCD2345",
		CreatedAt:  createdAt,
		FreeExpiry: 24 * time.Hour,
	})

	expiresAt := *transfer.ExpiresAt
	assert.False(t, transfer.IsExpiredAt(expiresAt), "not expired at the exact expiry instant")
	assert.True(t, transfer.IsExpiredAt(expiresAt.Add(time.Second)))
	assert.False(t, transfer.IsExpiredAt(expiresAt.Add(-time.Second)))
}

func TestTransfer_JSONDocumentLayout(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	transfer := NewTransfer(NewTransferParams{
		Code:          "ABCD2345",
		OriginalName:  "book.pdf",
		FileType:      "pdf",
		FileSizeBytes: 1000,
		StoragePath:   "free/ABCD2345/book.pdf",
		CreatedAt:     createdAt,
		FreeExpiry:    24 * time.Hour,
	})

	raw, err := json.Marshal(transfer)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, field := range []string{
		"code", "originalName", "fileType", "fileSizeBytes",
		"storagePath", "isPremium", "createdAt", "expiresAt", "downloadCount",
	} {
		assert.Contains(t, doc, field)
	}

	var back Transfer
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, *transfer, back)
}

func TestTransfer_JSONNullExpiry(t *testing.T) {
	transfer := NewTransfer(NewTransferParams{Code: "ABCD2345", IsPremium: true})

	raw, err := json.Marshal(transfer)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"expiresAt":null`)
}

func TestFileTypeFromName(t *testing.T) {
	tests := []struct {
		filename string
		want     string
		allowed  bool
	}{
		{"book.pdf", "pdf", true},
		{"Comic.CBZ", "cbz", true},
		{"comic.cbr", "cbr", true},
		{"novel.epub", "epub", true},
		{"script.exe", "exe", false},
		{"noextension", "", false},
		{"archive.tar.gz", "gz", false},
	}

	for _, tt := range tests {
		got, ok := FileTypeFromName(tt.filename)
		assert.Equal(t, tt.want, got, tt.filename)
		assert.Equal(t, tt.allowed, ok, tt.filename)
	}
}
