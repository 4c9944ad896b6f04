package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
)

// SeriesUseCase handles operations that address a whole installment series
// by its explicit series id.
type SeriesUseCase struct {
	gateway LedgerGateway
	cache   Cache
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewSeriesUseCase creates a new SeriesUseCase.
func NewSeriesUseCase(gateway LedgerGateway, cache Cache, m *metrics.Metrics, logger zerolog.Logger) *SeriesUseCase {
	return &SeriesUseCase{
		gateway: gateway,
		cache:   cache,
		metrics: m,
		logger:  logger,
	}
}

// GetSeries returns every entry of a series, ordered by position.
func (uc *SeriesUseCase) GetSeries(ctx context.Context, seriesID string) ([]*domain.LedgerEntry, error) {
	entries, err := uc.gateway.List(ctx, EntryFilter{SeriesID: seriesID, Limit: maxListLimit})
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, domain.ErrSeriesNotFound
	}

	return entries, nil
}

// CancelRemaining marks every still-pending entry of a series cancelled.
// Each entry is an independent write against the remote store; failures are
// collected per entry and reported together, while successful cancellations
// stand.
func (uc *SeriesUseCase) CancelRemaining(ctx context.Context, seriesID string) ([]*domain.LedgerEntry, error) {
	entries, err := uc.GetSeries(ctx, seriesID)
	if err != nil {
		return nil, err
	}

	var pending []*domain.LedgerEntry
	for _, e := range entries {
		if e.Status == domain.StatusPending {
			pending = append(pending, e)
		}
	}

	if len(pending) == 0 {
		return nil, ErrNothingToCancel
	}

	cancelled := domain.StatusCancelled
	patch := EntryPatch{Status: &cancelled}

	var updated []*domain.LedgerEntry
	failed := make(map[string]error)

	for _, e := range pending {
		entry, err := uc.gateway.Update(ctx, e.ID, patch)
		if err != nil {
			failed[e.ID] = err
			continue
		}

		updated = append(updated, entry)
	}

	uc.invalidateSummary(ctx)

	if uc.metrics != nil {
		uc.metrics.EntryMutations.WithLabelValues("cancel").Add(float64(len(updated)))
	}

	if len(failed) > 0 {
		uc.logger.Error().
			Str("series_id", seriesID).
			Int("cancelled", len(updated)).
			Int("failed", len(failed)).
			Msg("series cancellation incomplete")

		return updated, &CancelError{SeriesID: seriesID, Failed: failed}
	}

	uc.logger.Info().
		Str("series_id", seriesID).
		Int("cancelled", len(updated)).
		Msg("remaining installments cancelled")

	return updated, nil
}

func (uc *SeriesUseCase) invalidateSummary(ctx context.Context) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Delete(ctx, summaryCacheKey); err != nil {
		uc.logger.Warn().Err(err).Msg("failed to invalidate summary cache")
	}
}
