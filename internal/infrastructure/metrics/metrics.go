package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Purchase metrics
	PurchasesCreated   prometheus.Counter
	InstallmentsSplit  prometheus.Histogram
	PurchaseAmount     prometheus.Histogram
	PurchaseDuration   prometheus.Histogram
	PartialPersistence prometheus.Counter

	// Entry metrics
	EntriesPersisted prometheus.Counter
	EntryMutations   *prometheus.CounterVec
	EntryDeletions   prometheus.Counter

	// Gateway metrics
	GatewayCalls     *prometheus.CounterVec
	GatewayDuration  *prometheus.HistogramVec
	GatewayErrors    *prometheus.CounterVec
	MalformedRecords prometheus.Counter

	// Summary cache metrics
	SummaryCacheHits   prometheus.Counter
	SummaryCacheMisses prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		PurchasesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_purchases_created_total",
			Help: "Total number of installment purchases created",
		}),
		InstallmentsSplit: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fintrack_purchase_installments",
			Help:    "Number of installments per created purchase",
			Buckets: []float64{1, 2, 3, 6, 10, 12, 18, 24, 36, 48, 60},
		}),
		PurchaseAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fintrack_purchase_amount",
			Help:    "Purchase totals",
			Buckets: []float64{10, 100, 500, 1000, 5000, 10000, 100000},
		}),
		PurchaseDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fintrack_purchase_duration_seconds",
			Help:    "Duration of purchase creation including persistence",
			Buckets: prometheus.DefBuckets,
		}),
		PartialPersistence: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_purchase_partial_persistence_total",
			Help: "Series persistence attempts that stopped partway",
		}),

		EntriesPersisted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_entries_persisted_total",
			Help: "Total ledger entries written to the remote store",
		}),
		EntryMutations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_entry_mutations_total",
				Help: "Entry mutations by kind",
			},
			[]string{"kind"},
		),
		EntryDeletions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_entry_deletions_total",
			Help: "Total ledger entries deleted",
		}),

		GatewayCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_gateway_calls_total",
				Help: "Ledger gateway calls by operation",
			},
			[]string{"operation"},
		),
		GatewayDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fintrack_gateway_duration_seconds",
				Help:    "Ledger gateway call duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		GatewayErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fintrack_gateway_errors_total",
				Help: "Ledger gateway failures by operation",
			},
			[]string{"operation"},
		),
		MalformedRecords: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_malformed_records_total",
			Help: "Inbound records whose installment info failed to parse",
		}),

		SummaryCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_summary_cache_hits_total",
			Help: "Summary snapshots served from cache",
		}),
		SummaryCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_summary_cache_misses_total",
			Help: "Summary requests that recomputed the snapshot",
		}),
	}
}
