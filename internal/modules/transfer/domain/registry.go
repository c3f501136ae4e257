package domain

import (
	"context"
	"time"
)

// Registry is the contract for transfer metadata persistence, keyed by code.
//
// Uniqueness is a convention upheld by the caller: Create overwrites silently
// when called twice with the same code, and the upload flow is expected to
// have consulted AllCodes or Exists beforehand. Absence is always a boolean
// or sentinel result, never conflated with a transport failure.
type Registry interface {
	// Create stores the metadata record.
	Create(ctx context.Context, transfer *Transfer) error

	// Get performs an exact lookup, returning ErrTransferNotFound when the
	// code is absent. Callers normalize the code before calling.
	Get(ctx context.Context, code string) (*Transfer, error)

	// Exists reports whether a record exists for the code.
	Exists(ctx context.Context, code string) (bool, error)

	// IncrementDownloadCount atomically adds one to the stored counter.
	// Returns false when the code is absent; concurrent increments on the
	// same code must not lose updates.
	IncrementDownloadCount(ctx context.Context, code string) (bool, error)

	// Delete removes the record, reporting whether one existed. Idempotent.
	Delete(ctx context.Context, code string) (bool, error)

	// ListExpired returns every record whose expiry is set and has passed,
	// for an external cleanup process. Order is unspecified; expiry is a
	// logical state, so expired-but-undeleted records are included in every
	// other query too.
	ListExpired(ctx context.Context, now time.Time) ([]*Transfer, error)

	// AllCodes returns the full key space, including expired records, for
	// the uniqueness-retry loop in the upload flow.
	AllCodes(ctx context.Context) (map[string]struct{}, error)
}
