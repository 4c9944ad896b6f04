package domain

import (
	"github.com/shopspring/decimal"
)

// minorUnitFactor converts between the display unit and integer cents.
var minorUnitFactor = decimal.NewFromInt(100)

// Schedule is the precomputed amortization of a purchase total across N
// installments. Amounts are held in integer cents so that the split is free
// of binary floating-point drift; the last installment absorbs the rounding
// remainder so the vector sums to the total exactly.
type Schedule struct {
	totalCents int64
	cents      []int64
}

// NewSchedule splits total across installments.
//
// total must be positive with at most two decimal places;
// installments must be >= 1.
func NewSchedule(total decimal.Decimal, installments int) (*Schedule, error) {
	if installments < 1 {
		return nil, ErrInvalidInstallments
	}

	totalCents, err := toCents(total)
	if err != nil {
		return nil, err
	}

	if totalCents <= 0 {
		return nil, ErrInvalidAmount
	}

	base := totalCents / int64(installments)

	cents := make([]int64, installments)
	for i := range cents {
		cents[i] = base
	}
	cents[installments-1] = totalCents - base*int64(installments-1)

	s := &Schedule{totalCents: totalCents, cents: cents}

	// The construction above guarantees the exact-sum invariant; verify it
	// anyway so an inconsistent schedule can never reach persistence.
	var sum int64
	for _, c := range s.cents {
		sum += c
	}
	if sum != totalCents {
		return nil, ErrScheduleInconsistent
	}

	return s, nil
}

// Installments returns the number of installments in the schedule.
func (s *Schedule) Installments() int {
	return len(s.cents)
}

// Total returns the original purchase total.
func (s *Schedule) Total() decimal.Decimal {
	return fromCents(s.totalCents)
}

// Amount returns the installment amount at the given 1-based position.
func (s *Schedule) Amount(position int) (decimal.Decimal, error) {
	if position < 1 || position > len(s.cents) {
		return decimal.Zero, ErrPositionOutOfRange
	}

	return fromCents(s.cents[position-1]), nil
}

// Remaining returns what is still owed after the entry at the given
// position settles: total minus the prefix sum through that position.
func (s *Schedule) Remaining(position int) (decimal.Decimal, error) {
	if position < 1 || position > len(s.cents) {
		return decimal.Zero, ErrPositionOutOfRange
	}

	remaining := s.totalCents
	for _, c := range s.cents[:position] {
		remaining -= c
	}

	return fromCents(remaining), nil
}

// ComputeInstallment returns the amortized share and remaining balance for
// a single position without the caller holding a Schedule.
func ComputeInstallment(total decimal.Decimal, installments, position int) (amount, remaining decimal.Decimal, err error) {
	s, err := NewSchedule(total, installments)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	amount, err = s.Amount(position)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	remaining, err = s.Remaining(position)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return amount, remaining, nil
}

// toCents converts a decimal amount to integer cents, rejecting sub-cent
// precision rather than rounding it away.
func toCents(d decimal.Decimal) (int64, error) {
	cents := d.Mul(minorUnitFactor)
	if !cents.IsInteger() {
		return 0, ErrSubMinorUnit
	}

	return cents.IntPart(), nil
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
