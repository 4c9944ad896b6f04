package domain

import "math"

// Progress returns position-based completion of an installment entry as a
// whole percentage in [0, 100]: how far the entry sits within its series.
// It is independent of settlement status, with one exception: a
// single-installment series reads 0 until the entry settles, since its sole
// position carries no information of its own.
//
// Non-installment entries report 0.
func Progress(e *LedgerEntry) int {
	if e.Installment == nil {
		return 0
	}

	info := e.Installment
	if info.TotalInstallments == 1 {
		if e.Status == StatusPending {
			return 0
		}
		return 100
	}

	pct := math.Round(float64(info.CurrentInstallment) / float64(info.TotalInstallments) * 100)

	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}

	return int(pct)
}

// RemainingCount returns how many installments come after this entry in its
// series; 0 at the final position and for non-installment entries.
func RemainingCount(e *LedgerEntry) int {
	if e.Installment == nil {
		return 0
	}

	n := e.Installment.TotalInstallments - e.Installment.CurrentInstallment
	if n < 0 {
		return 0
	}

	return n
}

// SettledProgress returns settlement-based completion for a whole series:
// the percentage of its entries marked completed. This is deliberately a
// separate figure from Progress, which tracks position only; callers choose
// which to display.
func SettledProgress(entries []*LedgerEntry) int {
	total := 0
	completed := 0

	for _, e := range entries {
		if e.Installment == nil {
			continue
		}
		total++
		if e.Status == StatusCompleted {
			completed++
		}
	}

	if total == 0 {
		return 0
	}

	return int(math.Round(float64(completed) / float64(total) * 100))
}
