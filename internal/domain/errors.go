package domain

import "errors"

var (
	// Entry errors
	ErrEntryNotFound   = errors.New("ledger entry not found")
	ErrInvalidStatus   = errors.New("invalid entry status")
	ErrSeriesImmutable = errors.New("series membership cannot change after creation")
	ErrSeriesNotFound  = errors.New("installment series not found")

	// Amortization errors
	ErrInvalidAmount        = errors.New("total amount must be positive")
	ErrInvalidInstallments  = errors.New("total installments must be at least 1")
	ErrPositionOutOfRange   = errors.New("installment position out of range")
	ErrSubMinorUnit         = errors.New("amount has sub-cent precision")
	ErrScheduleInconsistent = errors.New("installment schedule does not sum to total amount")
)
