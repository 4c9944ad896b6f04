package domain

import (
	"time"
)

// IDSource allocates unique identifiers for generated entries.
type IDSource interface {
	Generate() string
}

// GenerateSeries expands a purchase intent into its full ordered series of
// ledger entries. Each call produces a fresh set of identities; entries are
// independent once generated and hold no references to one another.
//
// Dates advance by calendar months from the intent's start date, clamping
// the day-of-month when the target month is shorter (Jan 31 -> Feb 28).
func GenerateSeries(intent PurchaseIntent, seriesID string, ids IDSource, now time.Time) ([]*LedgerEntry, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}

	schedule, err := NewSchedule(intent.TotalAmount, intent.TotalInstallments)
	if err != nil {
		return nil, err
	}

	entries := make([]*LedgerEntry, 0, intent.TotalInstallments)

	for position := 1; position <= intent.TotalInstallments; position++ {
		amount, err := schedule.Amount(position)
		if err != nil {
			return nil, err
		}

		remaining, err := schedule.Remaining(position)
		if err != nil {
			return nil, err
		}

		entries = append(entries, &LedgerEntry{
			ID:            ids.Generate(),
			SeriesID:      seriesID,
			Description:   intent.Description,
			Amount:        amount,
			Date:          AddMonths(intent.StartDate, position-1),
			Status:        StatusPending,
			PaymentMethod: intent.PaymentMethod,
			Installment: &InstallmentInfo{
				TotalInstallments:  intent.TotalInstallments,
				CurrentInstallment: position,
				TotalAmount:        schedule.Total(),
				InstallmentAmount:  amount,
				RemainingAmount:    remaining,
			},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return entries, nil
}

// AddMonths advances t by the given number of calendar months, clamping the
// day to the last day of the target month instead of letting it overflow
// into the next one (time.AddDate would turn Jan 31 + 1 month into Mar 3).
func AddMonths(t time.Time, months int) time.Time {
	if months == 0 {
		return t
	}

	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())

	lastDay := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month())
	if day > lastDay {
		day = lastDay
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
