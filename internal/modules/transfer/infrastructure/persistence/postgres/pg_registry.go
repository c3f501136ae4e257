package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/imagineread/lite-backend/internal/modules/transfer/domain"
)

// PgTransferRegistry is the relational registry variant. The counter
// increment is a single UPDATE, atomic at the database.
type PgTransferRegistry struct {
	db *sqlx.DB
}

func NewPgTransferRegistry(db *sqlx.DB) *PgTransferRegistry {
	return &PgTransferRegistry{db: db}
}

// Create stores the record. A repeated code overwrites silently, matching the
// registry contract (uniqueness is upheld by the upload flow).
func (r *PgTransferRegistry) Create(ctx context.Context, transfer *domain.Transfer) error {
	query := `
		INSERT INTO transfers (
			code, original_name, file_type, file_size_bytes, storage_path,
			is_premium, user_id, created_at, expires_at, download_count
		) VALUES (
			:code, :original_name, :file_type, :file_size_bytes, :storage_path,
			:is_premium, :user_id, :created_at, :expires_at, :download_count
		)
		ON CONFLICT (code) DO UPDATE SET
			original_name   = EXCLUDED.original_name,
			file_type       = EXCLUDED.file_type,
			file_size_bytes = EXCLUDED.file_size_bytes,
			storage_path    = EXCLUDED.storage_path,
			is_premium      = EXCLUDED.is_premium,
			user_id         = EXCLUDED.user_id,
			created_at      = EXCLUDED.created_at,
			expires_at      = EXCLUDED.expires_at,
			download_count  = EXCLUDED.download_count
	`
	_, err := r.db.NamedExecContext(ctx, query, transfer)
	return err
}

// Get returns the record for the code or ErrTransferNotFound.
func (r *PgTransferRegistry) Get(ctx context.Context, code string) (*domain.Transfer, error) {
	var transfer domain.Transfer
	err := r.db.GetContext(ctx, &transfer,
		`SELECT * FROM transfers WHERE code = $1`, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// Exists reports whether a record exists for the code.
func (r *PgTransferRegistry) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM transfers WHERE code = $1)`, code)
	return exists, err
}

// IncrementDownloadCount adds one to the counter in a single UPDATE.
func (r *PgTransferRegistry) IncrementDownloadCount(ctx context.Context, code string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transfers SET download_count = download_count + 1 WHERE code = $1`, code)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes the record, reporting whether one existed.
func (r *PgTransferRegistry) Delete(ctx context.Context, code string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transfers WHERE code = $1`, code)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListExpired returns every record whose expiry is set and has passed.
func (r *PgTransferRegistry) ListExpired(ctx context.Context, now time.Time) ([]*domain.Transfer, error) {
	var transfers []*domain.Transfer
	err := r.db.SelectContext(ctx, &transfers,
		`SELECT * FROM transfers WHERE expires_at IS NOT NULL AND expires_at < $1`, now)
	if err != nil {
		return nil, err
	}
	return transfers, nil
}

// AllCodes returns the full key space, expired records included.
func (r *PgTransferRegistry) AllCodes(ctx context.Context) (map[string]struct{}, error) {
	var codes []string
	if err := r.db.SelectContext(ctx, &codes, `SELECT code FROM transfers`); err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set, nil
}
