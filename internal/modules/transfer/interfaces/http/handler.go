package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	storagedomain "github.com/imagineread/lite-backend/internal/modules/storage/domain"
	"github.com/imagineread/lite-backend/internal/modules/transfer/application"
	"github.com/imagineread/lite-backend/internal/modules/transfer/domain"
	"github.com/imagineread/lite-backend/internal/shared/utils"
)

// SizeLimits holds the per-tier upload size caps enforced at this boundary.
type SizeLimits struct {
	FreeBytes    int64
	PremiumBytes int64
}

// TransferHandler exposes the transfer lifecycle over HTTP. Codes are
// normalized here, before they reach the core.
type TransferHandler struct {
	service *application.Service
	limits  SizeLimits
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(service *application.Service, limits SizeLimits) *TransferHandler {
	return &TransferHandler{service: service, limits: limits}
}

// Upload handles POST /api/upload: accepts a multipart document, validates
// extension and size, and responds with the access code.
func (h *TransferHandler) Upload(w http.ResponseWriter, r *http.Request) {
	// The premium cap bounds the whole request; the per-tier check below
	// enforces the tighter free limit.
	r.Body = http.MaxBytesReader(w, r.Body, h.limits.PremiumBytes+1<<20)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		utils.WriteError(w, http.StatusRequestEntityTooLarge, "file too large", err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "missing file field", err)
		return
	}
	defer file.Close()

	isPremium := r.FormValue("premium") == "true"
	userID := r.FormValue("userId")

	fileType, ok := domain.FileTypeFromName(header.Filename)
	if !ok {
		utils.WriteError(w, http.StatusBadRequest,
			fmt.Sprintf("file type %q not allowed; allowed: pdf, cbz, cbr, epub", fileType), nil)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "failed to read upload", err)
		return
	}

	limit := h.limits.FreeBytes
	if isPremium {
		limit = h.limits.PremiumBytes
	}
	if int64(len(content)) > limit {
		utils.WriteError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file too large, maximum size %dMB", limit>>20), nil)
		return
	}

	transfer, err := h.service.Upload(r.Context(), application.UploadParams{
		Content:      content,
		OriginalName: header.Filename,
		FileType:     fileType,
		IsPremium:    isPremium,
		UserID:       userID,
	})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "upload failed", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, UploadResponse{
		Success:       true,
		Code:          transfer.Code,
		CodeFormatted: domain.FormatCode(transfer.Code),
		OriginalName:  transfer.OriginalName,
		FileType:      transfer.FileType,
		FileSizeBytes: transfer.FileSizeBytes,
		ExpiresAt:     transfer.ExpiresAt,
		Message:       "File uploaded successfully!",
	})
}

// Info handles GET /api/file/{code}: metadata plus a download URL, counting
// the request as a download.
func (h *TransferHandler) Info(w http.ResponseWriter, r *http.Request) {
	code := domain.NormalizeCode(r.PathValue("code"))

	result, err := h.service.Info(r.Context(), code)
	if err != nil {
		h.writeTransferError(w, err)
		return
	}

	transfer := result.Transfer
	utils.WriteJSON(w, http.StatusOK, FileInfoResponse{
		Success:       true,
		Code:          transfer.Code,
		OriginalName:  transfer.OriginalName,
		FileType:      transfer.FileType,
		FileSizeBytes: transfer.FileSizeBytes,
		DownloadURL:   result.DownloadURL,
		ExpiresAt:     transfer.ExpiresAt,
		DownloadCount: transfer.DownloadCount,
	})
}

// Download handles GET /api/download/{code}: streams the stored bytes with
// the original filename.
func (h *TransferHandler) Download(w http.ResponseWriter, r *http.Request) {
	code := domain.NormalizeCode(r.PathValue("code"))

	transfer, content, err := h.service.Download(r.Context(), code)
	if err != nil {
		h.writeTransferError(w, err)
		return
	}

	w.Header().Set("Content-Type", storagedomain.ContentTypeFor(transfer.OriginalName))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", transfer.OriginalName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// Check handles GET /api/check/{code}: validates a code without counting a
// download. Always responds 200; validity is in the body.
func (h *TransferHandler) Check(w http.ResponseWriter, r *http.Request) {
	code := domain.NormalizeCode(r.PathValue("code"))

	transfer, err := h.service.Check(r.Context(), code)
	switch {
	case errors.Is(err, domain.ErrTransferNotFound):
		utils.WriteJSON(w, http.StatusOK, CheckResponse{Valid: false, Reason: "not_found"})
		return
	case errors.Is(err, domain.ErrTransferExpired):
		utils.WriteJSON(w, http.StatusOK, CheckResponse{Valid: false, Reason: "expired"})
		return
	case err != nil:
		utils.WriteError(w, http.StatusInternalServerError, "check failed", err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, CheckResponse{
		Valid:         true,
		FileName:      transfer.OriginalName,
		FileType:      transfer.FileType,
		FileSizeBytes: transfer.FileSizeBytes,
	})
}

// writeTransferError maps domain sentinels to their HTTP equivalents.
func (h *TransferHandler) writeTransferError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrTransferNotFound):
		utils.WriteError(w, http.StatusNotFound, "code not found, please check and try again", nil)
	case errors.Is(err, domain.ErrTransferExpired):
		utils.WriteError(w, http.StatusGone, "this transfer has expired", nil)
	default:
		utils.WriteError(w, http.StatusInternalServerError, "internal error", err)
	}
}
