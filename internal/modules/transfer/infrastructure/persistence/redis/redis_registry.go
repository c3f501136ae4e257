package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/imagineread/lite-backend/internal/modules/transfer/domain"
)

const (
	keyPrefix = "transfer:"
	codeIndex = "transfer:codes"
)

// RedisRegistry is the production registry: one hash per code plus a set
// indexing the key space. The counter increment uses the store's native
// atomic HINCRBY, so concurrent downloads never lose updates.
type RedisRegistry struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisRegistry creates the registry on an already-connected client.
func NewRedisRegistry(client *redis.Client, logger *slog.Logger) *RedisRegistry {
	return &RedisRegistry{client: client, logger: logger}
}

func transferKey(code string) string {
	return keyPrefix + code
}

func encode(t *domain.Transfer) map[string]any {
	expiresAt := ""
	if t.ExpiresAt != nil {
		expiresAt = t.ExpiresAt.UTC().Format(time.RFC3339Nano)
	}
	return map[string]any{
		"originalName":  t.OriginalName,
		"fileType":      t.FileType,
		"fileSizeBytes": strconv.FormatInt(t.FileSizeBytes, 10),
		"storagePath":   t.StoragePath,
		"isPremium":     strconv.FormatBool(t.IsPremium),
		"userId":        t.UserID,
		"createdAt":     t.CreatedAt.UTC().Format(time.RFC3339Nano),
		"expiresAt":     expiresAt,
		"downloadCount": strconv.FormatInt(t.DownloadCount, 10),
	}
}

func decode(code string, fields map[string]string) (*domain.Transfer, error) {
	createdAt, err := time.Parse(time.RFC3339Nano, fields["createdAt"])
	if err != nil {
		return nil, fmt.Errorf("invalid createdAt for %s: %w", code, err)
	}

	var expiresAt *time.Time
	if raw := fields["expiresAt"]; raw != "" {
		e, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid expiresAt for %s: %w", code, err)
		}
		expiresAt = &e
	}

	size, err := strconv.ParseInt(fields["fileSizeBytes"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid fileSizeBytes for %s: %w", code, err)
	}
	count, err := strconv.ParseInt(fields["downloadCount"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid downloadCount for %s: %w", code, err)
	}
	premium, err := strconv.ParseBool(fields["isPremium"])
	if err != nil {
		return nil, fmt.Errorf("invalid isPremium for %s: %w", code, err)
	}

	return &domain.Transfer{
		Code:          code,
		OriginalName:  fields["originalName"],
		FileType:      fields["fileType"],
		FileSizeBytes: size,
		StoragePath:   fields["storagePath"],
		IsPremium:     premium,
		UserID:        fields["userId"],
		CreatedAt:     createdAt,
		ExpiresAt:     expiresAt,
		DownloadCount: count,
	}, nil
}

// Create stores the record hash and indexes its code.
func (r *RedisRegistry) Create(ctx context.Context, transfer *domain.Transfer) error {
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, transferKey(transfer.Code), encode(transfer))
	pipe.SAdd(ctx, codeIndex, transfer.Code)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to create transfer: %w", err)
	}

	r.logger.Info("transfer created", "code", transfer.Code)
	return nil
}

// Get returns the record for the code or ErrTransferNotFound.
func (r *RedisRegistry) Get(ctx context.Context, code string) (*domain.Transfer, error) {
	fields, err := r.client.HGetAll(ctx, transferKey(code)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get transfer: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrTransferNotFound
	}
	return decode(code, fields)
}

// Exists reports whether a record exists for the code.
func (r *RedisRegistry) Exists(ctx context.Context, code string) (bool, error) {
	n, err := r.client.Exists(ctx, transferKey(code)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check transfer: %w", err)
	}
	return n > 0, nil
}

// incrIfExists guards the HINCRBY with an existence check in one script, so a
// concurrent delete cannot resurrect the hash as a counter-only record.
var incrIfExists = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return redis.call('HINCRBY', KEYS[1], ARGV[1], 1)
end
return -1
`)

// IncrementDownloadCount adds one to the counter, atomically skipping codes
// that no longer exist.
func (r *RedisRegistry) IncrementDownloadCount(ctx context.Context, code string) (bool, error) {
	n, err := incrIfExists.Run(ctx, r.client, []string{transferKey(code)}, "downloadCount").Int64()
	if err != nil {
		return false, fmt.Errorf("failed to increment download count: %w", err)
	}
	return n >= 0, nil
}

// Delete removes the record and its index entry.
func (r *RedisRegistry) Delete(ctx context.Context, code string) (bool, error) {
	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, transferKey(code))
	pipe.SRem(ctx, codeIndex, code)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to delete transfer: %w", err)
	}

	deleted := del.Val() > 0
	if deleted {
		r.logger.Info("transfer deleted", "code", code)
	}
	return deleted, nil
}

// ListExpired walks the code index and filters on expiry.
func (r *RedisRegistry) ListExpired(ctx context.Context, now time.Time) ([]*domain.Transfer, error) {
	codes, err := r.client.SMembers(ctx, codeIndex).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list codes: %w", err)
	}

	var expired []*domain.Transfer
	for _, code := range codes {
		transfer, err := r.Get(ctx, code)
		if err != nil {
			// Index entries can outlive their hash briefly; skip them.
			continue
		}
		if transfer.IsExpiredAt(now) {
			expired = append(expired, transfer)
		}
	}
	return expired, nil
}

// AllCodes returns the full key space from the code index.
func (r *RedisRegistry) AllCodes(ctx context.Context) (map[string]struct{}, error) {
	codes, err := r.client.SMembers(ctx, codeIndex).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list codes: %w", err)
	}

	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set, nil
}
