package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
)

// EntryUseCase handles lifecycle of individual ledger entries. Edits and
// deletes affect only the targeted entry; siblings of its series are never
// touched implicitly.
type EntryUseCase struct {
	gateway LedgerGateway
	idGen   IDGenerator
	cache   Cache
	metrics *metrics.Metrics
	logger  zerolog.Logger

	// inflight enforces at most one concurrent mutation per entry id, so a
	// rapid edit/delete pair on the same installment cannot lose an update.
	// Mutations to different entries proceed in parallel.
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(gateway LedgerGateway, idGen IDGenerator, cache Cache, m *metrics.Metrics, logger zerolog.Logger) *EntryUseCase {
	return &EntryUseCase{
		gateway:  gateway,
		idGen:    idGen,
		cache:    cache,
		metrics:  m,
		logger:   logger,
		inflight: make(map[string]struct{}),
	}
}

// CreateEntry records a one-off movement. The entry carries no series
// membership and never enters the installment summary, so the summary cache
// stays valid.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, intent domain.EntryIntent) (*domain.LedgerEntry, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	created, err := uc.gateway.Create(ctx, &domain.LedgerEntry{
		ID:            uc.idGen.Generate(),
		Description:   intent.Description,
		Amount:        intent.Amount,
		Date:          intent.Date,
		Status:        domain.StatusPending,
		PaymentMethod: intent.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		uc.logger.Error().Err(err).Str("description", intent.Description).Msg("entry create failed")
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesPersisted.Inc()
	}

	return created, nil
}

// ListEntries lists entries matching the filter.
func (uc *EntryUseCase) ListEntries(ctx context.Context, filter EntryFilter) ([]*domain.LedgerEntry, error) {
	filter.Limit, filter.Offset = domain.ValidatePagination(filter.Limit, filter.Offset)

	return uc.gateway.List(ctx, filter)
}

// GetEntry retrieves a single entry by id. The remote store exposes only
// list, so this is a filtered list of one.
func (uc *EntryUseCase) GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	entries, err := uc.gateway.List(ctx, EntryFilter{ID: id, Limit: 1})
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, domain.ErrEntryNotFound
	}

	return entries[0], nil
}

// UpdateEntry applies a single-entry correction: status transition, amount
// or description fix, date move. Installment position and count are not
// patchable; series membership is immutable after creation.
func (uc *EntryUseCase) UpdateEntry(ctx context.Context, id string, patch EntryPatch) (*domain.LedgerEntry, error) {
	if patch.Empty() {
		return nil, domain.ErrEntryNotFound
	}

	if patch.Status != nil && !patch.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	if patch.Amount != nil {
		if err := domain.ValidateAmount(*patch.Amount); err != nil {
			return nil, err
		}
	}

	if patch.Description != nil {
		if err := domain.ValidateDescription(*patch.Description); err != nil {
			return nil, err
		}
	}

	release, err := uc.acquire(id)
	if err != nil {
		return nil, err
	}
	defer release()

	entry, err := uc.gateway.Update(ctx, id, patch)
	if err != nil {
		uc.logger.Error().Err(err).Str("entry_id", id).Msg("entry update failed")
		return nil, err
	}

	uc.invalidateSummary(ctx)

	if uc.metrics != nil {
		uc.metrics.EntryMutations.WithLabelValues(mutationKind(patch)).Inc()
	}

	return entry, nil
}

// DeleteEntry removes a single entry. Siblings of an installment series are
// deliberately left alone; cancelling the rest of a series is an explicit,
// separate operation.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, id string) error {
	release, err := uc.acquire(id)
	if err != nil {
		return err
	}
	defer release()

	if err := uc.gateway.Delete(ctx, id); err != nil {
		uc.logger.Error().Err(err).Str("entry_id", id).Msg("entry delete failed")
		return err
	}

	uc.invalidateSummary(ctx)

	if uc.metrics != nil {
		uc.metrics.EntryDeletions.Inc()
	}

	return nil
}

// acquire marks an entry id as having a mutation in flight. It returns a
// release func, or ErrMutationInFlight when another mutation holds the id.
func (uc *EntryUseCase) acquire(id string) (func(), error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if _, busy := uc.inflight[id]; busy {
		return nil, ErrMutationInFlight
	}

	uc.inflight[id] = struct{}{}

	return func() {
		uc.mu.Lock()
		defer uc.mu.Unlock()
		delete(uc.inflight, id)
	}, nil
}

func (uc *EntryUseCase) invalidateSummary(ctx context.Context) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Delete(ctx, summaryCacheKey); err != nil {
		uc.logger.Warn().Err(err).Msg("failed to invalidate summary cache")
	}
}

func mutationKind(patch EntryPatch) string {
	switch {
	case patch.Status != nil:
		return "status"
	case patch.Amount != nil:
		return "amount"
	case patch.Description != nil:
		return "description"
	default:
		return "date"
	}
}
