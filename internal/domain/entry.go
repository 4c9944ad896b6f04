package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus is the settlement state of a single ledger entry.
type EntryStatus string

const (
	StatusPending   EntryStatus = "pending"
	StatusCompleted EntryStatus = "completed"
	StatusCancelled EntryStatus = "cancelled"
)

// Valid reports whether s is a known entry status.
func (s EntryStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// LedgerEntry represents one financial movement, installment or not.
type LedgerEntry struct {
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Date          time.Time
	Installment   *InstallmentInfo
	ID            string
	SeriesID      string
	Description   string
	PaymentMethod string
	Status        EntryStatus
	Amount        decimal.Decimal
}

// InstallmentInfo is the per-entry view of an installment series.
// It is a value object owned by exactly one entry; entries of the same
// series each carry their own copy.
type InstallmentInfo struct {
	TotalAmount        decimal.Decimal
	InstallmentAmount  decimal.Decimal
	RemainingAmount    decimal.Decimal
	TotalInstallments  int
	CurrentInstallment int
}

// Validate checks internal consistency of installment metadata.
func (i *InstallmentInfo) Validate() error {
	if i.TotalInstallments < 1 {
		return ErrInvalidInstallments
	}

	if i.CurrentInstallment < 1 || i.CurrentInstallment > i.TotalInstallments {
		return ErrPositionOutOfRange
	}

	if i.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

// Clone returns an independent copy of the installment info.
func (i *InstallmentInfo) Clone() *InstallmentInfo {
	if i == nil {
		return nil
	}
	c := *i
	return &c
}

// IsInstallment reports whether the entry belongs to an installment series.
func (e *LedgerEntry) IsInstallment() bool {
	return e.Installment != nil
}

// Validate checks the entry before persistence.
func (e *LedgerEntry) Validate() error {
	if !e.Status.Valid() {
		return ErrInvalidStatus
	}

	if e.Installment != nil {
		return e.Installment.Validate()
	}

	return nil
}
