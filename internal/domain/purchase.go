package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseIntent is a single credit-purchase action as entered by the user:
// one total to be amortized across a number of monthly installments.
type PurchaseIntent struct {
	StartDate         time.Time
	Description       string
	PaymentMethod     string
	TotalAmount       decimal.Decimal
	TotalInstallments int
}

// Validate rejects intents that must not produce any entries.
func (p *PurchaseIntent) Validate() error {
	if err := ValidateDescription(p.Description); err != nil {
		return err
	}

	if err := ValidateInstallmentCount(p.TotalInstallments); err != nil {
		return err
	}

	return ValidateAmount(p.TotalAmount)
}

// EntryIntent is a one-off movement as entered by the user. It produces a
// single entry with no series membership.
type EntryIntent struct {
	Date          time.Time
	Description   string
	PaymentMethod string
	Amount        decimal.Decimal
}

// Validate rejects intents that must not produce an entry.
func (e *EntryIntent) Validate() error {
	if err := ValidateDescription(e.Description); err != nil {
		return err
	}

	return ValidateAmount(e.Amount)
}
