package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/imagineread/lite-backend/internal/modules/transfer/domain"
)

// JSONFileRegistry is the development registry: a single JSON document
// mapping code -> transfer, rewritten wholesale on every mutation. A mutex
// serializes all access; the flat file is not safe under concurrent writers
// without it.
type JSONFileRegistry struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

// NewJSONFileRegistry creates the registry, initializing the document file
// if it does not exist yet.
func NewJSONFileRegistry(path string, logger *slog.Logger) (*JSONFileRegistry, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create registry directory: %w", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
			return nil, fmt.Errorf("failed to initialize registry file: %w", err)
		}
	}

	logger.Info("json registry initialized", "path", path)

	return &JSONFileRegistry{path: path, logger: logger}, nil
}

func (r *JSONFileRegistry) load() (map[string]*domain.Transfer, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	db := make(map[string]*domain.Transfer)
	if err := json.Unmarshal(raw, &db); err != nil {
		// A corrupt document is treated as empty, matching the
		// development-grade contract of this store.
		r.logger.Warn("registry file corrupt, starting empty", "path", r.path, "error", err)
		return make(map[string]*domain.Transfer), nil
	}
	return db, nil
}

func (r *JSONFileRegistry) save(db map[string]*domain.Transfer) error {
	raw, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}
	if err := os.WriteFile(r.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}

// Create stores the metadata record, overwriting silently on a repeated code.
func (r *JSONFileRegistry) Create(ctx context.Context, transfer *domain.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	db, err := r.load()
	if err != nil {
		return err
	}
	db[transfer.Code] = transfer
	if err := r.save(db); err != nil {
		return err
	}

	r.logger.Info("transfer created", "code", transfer.Code)
	return nil
}

// Get returns the record for the code or ErrTransferNotFound.
func (r *JSONFileRegistry) Get(ctx context.Context, code string) (*domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	db, err := r.load()
	if err != nil {
		return nil, err
	}
	transfer, ok := db[code]
	if !ok {
		return nil, domain.ErrTransferNotFound
	}
	return transfer, nil
}

// Exists reports whether a record exists for the code.
func (r *JSONFileRegistry) Exists(ctx context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	db, err := r.load()
	if err != nil {
		return false, err
	}
	_, ok := db[code]
	return ok, nil
}

// IncrementDownloadCount adds one to the stored counter. The mutex makes the
// read-modify-write of the whole document atomic for this store.
func (r *JSONFileRegistry) IncrementDownloadCount(ctx context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	db, err := r.load()
	if err != nil {
		return false, err
	}
	transfer, ok := db[code]
	if !ok {
		return false, nil
	}
	transfer.DownloadCount++
	if err := r.save(db); err != nil {
		return false, err
	}
	return true, nil
}

// Delete removes the record, reporting whether one existed.
func (r *JSONFileRegistry) Delete(ctx context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	db, err := r.load()
	if err != nil {
		return false, err
	}
	if _, ok := db[code]; !ok {
		return false, nil
	}
	delete(db, code)
	if err := r.save(db); err != nil {
		return false, err
	}

	r.logger.Info("transfer deleted", "code", code)
	return true, nil
}

// ListExpired returns every record whose expiry has passed.
func (r *JSONFileRegistry) ListExpired(ctx context.Context, now time.Time) ([]*domain.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	db, err := r.load()
	if err != nil {
		return nil, err
	}

	var expired []*domain.Transfer
	for _, transfer := range db {
		if transfer.IsExpiredAt(now) {
			expired = append(expired, transfer)
		}
	}
	return expired, nil
}

// AllCodes returns the full key space, expired records included.
func (r *JSONFileRegistry) AllCodes(ctx context.Context) (map[string]struct{}, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	db, err := r.load()
	if err != nil {
		return nil, err
	}

	codes := make(map[string]struct{}, len(db))
	for code := range db {
		codes[code] = struct{}{}
	}
	return codes, nil
}
