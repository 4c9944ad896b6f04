package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

const dateLayout = "2006-01-02"

// CreatePurchaseRequest represents a request to record a credit purchase.
type CreatePurchaseRequest struct {
	Description       string          `json:"description"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	TotalInstallments int             `json:"total_installments"`
	StartDate         string          `json:"start_date"`
	PaymentMethod     string          `json:"payment_method,omitempty"`
}

// ToIntent converts to a domain purchase intent.
func (r *CreatePurchaseRequest) ToIntent() (domain.PurchaseIntent, error) {
	start, err := time.Parse(dateLayout, r.StartDate)
	if err != nil {
		return domain.PurchaseIntent{}, fmt.Errorf("invalid start_date: %w", err)
	}

	return domain.PurchaseIntent{
		StartDate:         start,
		Description:       r.Description,
		PaymentMethod:     r.PaymentMethod,
		TotalAmount:       r.TotalAmount,
		TotalInstallments: r.TotalInstallments,
	}, nil
}

// CreateEntryRequest represents a request to record a one-off movement.
type CreateEntryRequest struct {
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	PaymentMethod string          `json:"payment_method,omitempty"`
}

// ToIntent converts to a domain entry intent.
func (r *CreateEntryRequest) ToIntent() (domain.EntryIntent, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return domain.EntryIntent{}, fmt.Errorf("invalid date: %w", err)
	}

	return domain.EntryIntent{
		Date:          date,
		Description:   r.Description,
		PaymentMethod: r.PaymentMethod,
		Amount:        r.Amount,
	}, nil
}

// UpdateEntryRequest represents a partial entry mutation. Absent fields are
// left untouched.
type UpdateEntryRequest struct {
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Date        *string          `json:"date,omitempty"`
	Status      *string          `json:"status,omitempty"`
}

// ToPatch converts to a use case patch.
func (r *UpdateEntryRequest) ToPatch() (usecase.EntryPatch, error) {
	patch := usecase.EntryPatch{
		Description: r.Description,
		Amount:      r.Amount,
	}

	if r.Date != nil {
		date, err := time.Parse(dateLayout, *r.Date)
		if err != nil {
			return usecase.EntryPatch{}, fmt.Errorf("invalid date: %w", err)
		}

		patch.Date = &date
	}

	if r.Status != nil {
		status := domain.EntryStatus(*r.Status)
		if !status.Valid() {
			return usecase.EntryPatch{}, domain.ErrInvalidStatus
		}

		patch.Status = &status
	}

	return patch, nil
}
