package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
)

// PurchaseUseCase turns a credit-purchase intent into a persisted
// installment series.
type PurchaseUseCase struct {
	gateway LedgerGateway
	idGen   IDGenerator
	cache   Cache
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewPurchaseUseCase creates a new PurchaseUseCase.
func NewPurchaseUseCase(
	gateway LedgerGateway,
	idGen IDGenerator,
	cache Cache,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		gateway: gateway,
		idGen:   idGen,
		cache:   cache,
		metrics: m,
		logger:  logger,
	}
}

// CreatePurchase validates the intent, expands it into its full series and
// persists each entry individually through the gateway.
//
// The remote store offers no cross-entry transaction. If a write fails
// partway, the entries already persisted stay persisted and the returned
// *PartialCreateError names exactly which ones, so the caller can surface
// the failure and retry or discard explicitly; nothing is retried silently.
func (uc *PurchaseUseCase) CreatePurchase(ctx context.Context, intent domain.PurchaseIntent) ([]*domain.LedgerEntry, error) {
	start := time.Now()

	// Reject before anything is generated or persisted.
	if err := intent.Validate(); err != nil {
		return nil, err
	}

	seriesID := uc.idGen.Generate()

	entries, err := domain.GenerateSeries(intent, seriesID, uc.idGen, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	persisted := make([]*domain.LedgerEntry, 0, len(entries))

	for i, entry := range entries {
		created, err := uc.gateway.Create(ctx, entry)
		if err != nil {
			uc.logger.Error().
				Err(err).
				Str("series_id", seriesID).
				Int("position", i+1).
				Int("persisted", len(persisted)).
				Msg("series persistence stopped partway")

			if uc.metrics != nil {
				uc.metrics.PartialPersistence.Inc()
			}

			return persisted, &PartialCreateError{
				SeriesID:       seriesID,
				Created:        persisted,
				FailedPosition: i + 1,
				Err:            err,
			}
		}

		persisted = append(persisted, created)

		if uc.metrics != nil {
			uc.metrics.EntriesPersisted.Inc()
		}
	}

	uc.invalidateSummary(ctx)

	if uc.metrics != nil {
		uc.metrics.PurchasesCreated.Inc()
		uc.metrics.InstallmentsSplit.Observe(float64(intent.TotalInstallments))
		uc.metrics.PurchaseAmount.Observe(intent.TotalAmount.InexactFloat64())
		uc.metrics.PurchaseDuration.Observe(time.Since(start).Seconds())
	}

	uc.logger.Info().
		Str("series_id", seriesID).
		Int("installments", len(persisted)).
		Str("total", intent.TotalAmount.String()).
		Msg("installment series created")

	return persisted, nil
}

func (uc *PurchaseUseCase) invalidateSummary(ctx context.Context) {
	if uc.cache == nil {
		return
	}

	if err := uc.cache.Delete(ctx, summaryCacheKey); err != nil {
		uc.logger.Warn().Err(err).Msg("failed to invalidate summary cache")
	}
}
