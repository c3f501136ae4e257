package http

import "time"

// UploadResponse is returned after a successful upload.
type UploadResponse struct {
	Success       bool       `json:"success"`
	Code          string     `json:"code"`
	CodeFormatted string     `json:"codeFormatted"`
	OriginalName  string     `json:"originalName"`
	FileType      string     `json:"fileType"`
	FileSizeBytes int64      `json:"fileSizeBytes"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	Message       string     `json:"message"`
}

// FileInfoResponse is returned for metadata queries.
type FileInfoResponse struct {
	Success       bool       `json:"success"`
	Code          string     `json:"code"`
	OriginalName  string     `json:"originalName"`
	FileType      string     `json:"fileType"`
	FileSizeBytes int64      `json:"fileSizeBytes"`
	DownloadURL   string     `json:"downloadUrl"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	DownloadCount int64      `json:"downloadCount"`
}

// CheckResponse reports whether a code is redeemable without downloading.
type CheckResponse struct {
	Valid         bool   `json:"valid"`
	Reason        string `json:"reason,omitempty"`
	FileName      string `json:"fileName,omitempty"`
	FileType      string `json:"fileType,omitempty"`
	FileSizeBytes int64  `json:"fileSizeBytes,omitempty"`
}
