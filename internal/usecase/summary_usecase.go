package usecase

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/infrastructure/metrics"
)

// SummaryUseCase rolls up installment totals across every series the store
// holds, with a short-lived cached snapshot in front of the gateway.
type SummaryUseCase struct {
	gateway LedgerGateway
	cache   Cache
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewSummaryUseCase creates a new SummaryUseCase.
func NewSummaryUseCase(gateway LedgerGateway, cache Cache, m *metrics.Metrics, logger zerolog.Logger) *SummaryUseCase {
	return &SummaryUseCase{
		gateway: gateway,
		cache:   cache,
		metrics: m,
		logger:  logger,
	}
}

// summarySnapshot is the cached wire form of a summary.
type summarySnapshot struct {
	TotalCommitted decimal.Decimal `json:"total_committed"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
}

// GetSummary returns the aggregated totals over all installment entries.
func (uc *SummaryUseCase) GetSummary(ctx context.Context) (domain.Summary, error) {
	if snapshot, ok := uc.fromCache(ctx); ok {
		if uc.metrics != nil {
			uc.metrics.SummaryCacheHits.Inc()
		}
		return snapshot, nil
	}

	if uc.metrics != nil {
		uc.metrics.SummaryCacheMisses.Inc()
	}

	entries, err := uc.gateway.List(ctx, EntryFilter{OnlyInstallments: true, Limit: maxListLimit})
	if err != nil {
		return domain.Summary{}, err
	}

	summary := domain.Aggregate(entries)
	uc.store(ctx, summary)

	return summary, nil
}

func (uc *SummaryUseCase) fromCache(ctx context.Context) (domain.Summary, bool) {
	if uc.cache == nil {
		return domain.Summary{}, false
	}

	raw, err := uc.cache.Get(ctx, summaryCacheKey)
	if err != nil || raw == "" {
		return domain.Summary{}, false
	}

	var snapshot summarySnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		uc.logger.Warn().Err(err).Msg("discarding unreadable summary snapshot")
		return domain.Summary{}, false
	}

	return domain.Summary{
		TotalCommitted: snapshot.TotalCommitted,
		TotalPaid:      snapshot.TotalPaid,
		TotalRemaining: snapshot.TotalRemaining,
	}, true
}

func (uc *SummaryUseCase) store(ctx context.Context, summary domain.Summary) {
	if uc.cache == nil {
		return
	}

	raw, err := json.Marshal(summarySnapshot{
		TotalCommitted: summary.TotalCommitted,
		TotalPaid:      summary.TotalPaid,
		TotalRemaining: summary.TotalRemaining,
	})
	if err != nil {
		return
	}

	if err := uc.cache.Set(ctx, summaryCacheKey, string(raw), summaryCacheTTL); err != nil {
		uc.logger.Warn().Err(err).Msg("failed to cache summary snapshot")
	}
}
