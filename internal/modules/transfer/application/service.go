package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	storagedomain "github.com/imagineread/lite-backend/internal/modules/storage/domain"
	"github.com/imagineread/lite-backend/internal/modules/transfer/domain"
)

// Service orchestrates the transfer lifecycle: code generation, byte
// persistence and metadata registration on upload; lookup, expiry check and
// counter increment on download.
type Service struct {
	registry   domain.Registry
	storage    storagedomain.Backend
	freeExpiry time.Duration
	logger     *slog.Logger
	now        func() time.Time
	generate   func(existing map[string]struct{}, length int) (string, error)
}

// NewService creates a new transfer service
func NewService(registry domain.Registry, storage storagedomain.Backend, freeExpiry time.Duration, logger *slog.Logger) *Service {
	return &Service{
		registry:   registry,
		storage:    storage,
		freeExpiry: freeExpiry,
		logger:     logger,
		now:        time.Now,
		generate:   domain.GenerateUniqueCode,
	}
}

// UploadParams carries a pre-validated upload: the caller has already checked
// extension, MIME type and size against the tier limit.
type UploadParams struct {
	Content      []byte
	OriginalName string
	FileType     string
	IsPremium    bool
	UserID       string
}

// InfoResult is the outcome of a file-info lookup.
type InfoResult struct {
	Transfer    *domain.Transfer
	DownloadURL string
}

// Upload claims a unique code, persists the bytes, then creates the metadata
// record — in that order, so no record ever points at bytes that failed to
// persist.
func (s *Service) Upload(ctx context.Context, p UploadParams) (*domain.Transfer, error) {
	codes, err := s.registry.AllCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing codes: %w", err)
	}

	code, err := s.generate(codes, domain.DefaultCodeLength)
	if err != nil {
		return nil, err
	}

	storagePath, err := s.storage.Upload(ctx, p.Content, code, p.OriginalName, p.IsPremium)
	if err != nil {
		return nil, fmt.Errorf("failed to persist content: %w", err)
	}

	transfer := domain.NewTransfer(domain.NewTransferParams{
		Code:          code,
		OriginalName:  p.OriginalName,
		FileType:      p.FileType,
		FileSizeBytes: int64(len(p.Content)),
		StoragePath:   storagePath,
		IsPremium:     p.IsPremium,
		UserID:        p.UserID,
		CreatedAt:     s.now().UTC(),
		FreeExpiry:    s.freeExpiry,
	})

	if err := s.registry.Create(ctx, transfer); err != nil {
		// Reclaim the stored bytes so the failed upload leaves nothing
		// behind on either side.
		s.storage.Delete(ctx, storagePath)
		return nil, fmt.Errorf("failed to create transfer record: %w", err)
	}

	uploadsTotal.Inc()
	s.logger.Info("upload complete",
		"code", code,
		"filename", p.OriginalName,
		"bytes", len(p.Content),
		"premium", p.IsPremium,
	)

	return transfer, nil
}

// Info returns the transfer metadata and a download locator, incrementing the
// download counter. The counter increment is best-effort: a failed increment
// is logged, not surfaced.
func (s *Service) Info(ctx context.Context, code string) (*InfoResult, error) {
	transfer, err := s.lookupLive(ctx, code)
	if err != nil {
		return nil, err
	}

	url := s.storage.DownloadURL(transfer.StoragePath, time.Hour)

	if ok, err := s.registry.IncrementDownloadCount(ctx, code); err != nil || !ok {
		s.logger.Warn("failed to increment download count", "code", code, "error", err)
	} else {
		transfer.DownloadCount++
	}

	return &InfoResult{Transfer: transfer, DownloadURL: url}, nil
}

// Download returns the transfer metadata together with the stored bytes and
// increments the download counter.
func (s *Service) Download(ctx context.Context, code string) (*domain.Transfer, []byte, error) {
	transfer, err := s.lookupLive(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	content, err := s.storage.Get(ctx, transfer.StoragePath)
	if err != nil {
		if errors.Is(err, storagedomain.ErrObjectNotFound) {
			// Metadata without bytes: surfaced as not-found, the record
			// is left for the sweeper.
			return nil, nil, fmt.Errorf("content missing from storage: %w", domain.ErrTransferNotFound)
		}
		return nil, nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	if ok, err := s.registry.IncrementDownloadCount(ctx, code); err != nil || !ok {
		s.logger.Warn("failed to increment download count", "code", code, "error", err)
	} else {
		transfer.DownloadCount++
	}

	downloadsTotal.Inc()
	s.logger.Info("download complete", "code", code, "filename", transfer.OriginalName)

	return transfer, content, nil
}

// Check validates a code without counting it as a download.
func (s *Service) Check(ctx context.Context, code string) (*domain.Transfer, error) {
	return s.lookupLive(ctx, code)
}

// Delete removes both the stored bytes and the metadata record.
func (s *Service) Delete(ctx context.Context, code string) error {
	transfer, err := s.registry.Get(ctx, code)
	if err != nil {
		return err
	}

	s.storage.Delete(ctx, transfer.StoragePath)

	if _, err := s.registry.Delete(ctx, code); err != nil {
		return fmt.Errorf("failed to delete transfer record: %w", err)
	}
	return nil
}

// SweepExpired deletes every expired transfer's bytes and metadata, returning
// how many were cleaned up.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	expired, err := s.registry.ListExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to list expired transfers: %w", err)
	}

	cleaned := 0
	for _, transfer := range expired {
		s.storage.Delete(ctx, transfer.StoragePath)
		ok, err := s.registry.Delete(ctx, transfer.Code)
		if err != nil {
			s.logger.Error("failed to delete expired transfer", "code", transfer.Code, "error", err)
			continue
		}
		if ok {
			cleaned++
			sweptTotal.Inc()
		}
	}

	return cleaned, nil
}

// lookupLive resolves a normalized code to a non-expired transfer.
func (s *Service) lookupLive(ctx context.Context, code string) (*domain.Transfer, error) {
	transfer, err := s.registry.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if transfer.IsExpiredAt(s.now().UTC()) {
		// Expired metadata is only flagged on read, never auto-deleted;
		// cleanup belongs to the sweeper.
		return nil, domain.ErrTransferExpired
	}
	return transfer, nil
}
