package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// EntryFilter narrows a gateway list call.
type EntryFilter struct {
	From             *time.Time
	To               *time.Time
	ID               string
	SeriesID         string
	Status           domain.EntryStatus
	OnlyInstallments bool
	Limit            int
	Offset           int
}

// EntryPatch carries the per-entry fields a single mutation may change.
// Series membership (position, total installments) is immutable and has no
// patchable representation here.
type EntryPatch struct {
	Description *string
	Amount      *decimal.Decimal
	Date        *time.Time
	Status      *domain.EntryStatus
}

// Empty reports whether the patch changes nothing.
func (p EntryPatch) Empty() bool {
	return p.Description == nil && p.Amount == nil && p.Date == nil && p.Status == nil
}

// LedgerGateway is the remote persistence boundary. Every call is an
// independent round trip; there is no cross-entry transaction.
type LedgerGateway interface {
	Create(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error)
	Update(ctx context.Context, id string, patch EntryPatch) (*domain.LedgerEntry, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter EntryFilter) ([]*domain.LedgerEntry, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
