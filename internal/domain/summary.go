package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Summary is the roll-up of installment commitments across every series
// present in a collection of entries.
type Summary struct {
	TotalCommitted decimal.Decimal
	TotalPaid      decimal.Decimal
	TotalRemaining decimal.Decimal
}

// Aggregate rolls up an arbitrary collection of ledger entries, possibly
// spanning many series mixed with ordinary one-off entries, into summary
// totals. Non-installment entries are excluded.
//
// Per series, the purchase total is counted exactly once no matter how many
// of its entries are present, and the remaining balance is derived from
// settlement status (total minus the completed installment amounts) rather
// than from any single entry's stored remaining figure. Paid is derived as
// committed minus remaining so the three totals reconcile by construction.
func Aggregate(entries []*LedgerEntry) Summary {
	type seriesAcc struct {
		total     decimal.Decimal
		completed decimal.Decimal
	}

	series := make(map[string]*seriesAcc)
	var order []string

	for _, e := range entries {
		if e.Installment == nil {
			continue
		}

		key := seriesKey(e)
		acc, ok := series[key]
		if !ok {
			acc = &seriesAcc{total: e.Installment.TotalAmount}
			series[key] = acc
			order = append(order, key)
		}

		if e.Status == StatusCompleted {
			acc.completed = acc.completed.Add(e.Installment.InstallmentAmount)
		}
	}

	var summary Summary
	summary.TotalCommitted = decimal.Zero
	summary.TotalPaid = decimal.Zero
	summary.TotalRemaining = decimal.Zero

	for _, key := range order {
		acc := series[key]

		remaining := acc.total.Sub(acc.completed)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		if remaining.GreaterThan(acc.total) {
			remaining = acc.total
		}

		summary.TotalCommitted = summary.TotalCommitted.Add(acc.total)
		summary.TotalRemaining = summary.TotalRemaining.Add(remaining)
	}

	summary.TotalPaid = summary.TotalCommitted.Sub(summary.TotalRemaining)

	return summary
}

// seriesKey identifies the series an entry belongs to. Entries generated by
// this tracker carry an explicit series ID; records imported from elsewhere
// may not, so those fall back to the (description, total, count) grouping
// the legacy data relied on.
func seriesKey(e *LedgerEntry) string {
	if e.SeriesID != "" {
		return e.SeriesID
	}

	return fmt.Sprintf("%s|%s|%d", e.Description, e.Installment.TotalAmount.String(), e.Installment.TotalInstallments)
}
