package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// InstallmentResponse represents installment metadata in API responses.
type InstallmentResponse struct {
	TotalInstallments  int             `json:"total_installments"`
	CurrentInstallment int             `json:"current_installment"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	InstallmentAmount  decimal.Decimal `json:"installment_amount"`
	RemainingAmount    decimal.Decimal `json:"remaining_amount"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID            string               `json:"id"`
	SeriesID      string               `json:"series_id,omitempty"`
	Description   string               `json:"description"`
	Amount        decimal.Decimal      `json:"amount"`
	Date          string               `json:"date"`
	Status        string               `json:"status"`
	PaymentMethod string               `json:"payment_method,omitempty"`
	Installment   *InstallmentResponse `json:"installment,omitempty"`
	Progress      int                  `json:"progress"`
	CreatedAt     time.Time            `json:"created_at,omitempty"`
	UpdatedAt     time.Time            `json:"updated_at,omitempty"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	resp := &EntryResponse{
		ID:            e.ID,
		SeriesID:      e.SeriesID,
		Description:   e.Description,
		Amount:        e.Amount,
		Date:          e.Date.Format(dateLayout),
		Status:        string(e.Status),
		PaymentMethod: e.PaymentMethod,
		Progress:      domain.Progress(e),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}

	if e.Installment != nil {
		resp.Installment = &InstallmentResponse{
			TotalInstallments:  e.Installment.TotalInstallments,
			CurrentInstallment: e.Installment.CurrentInstallment,
			TotalAmount:        e.Installment.TotalAmount,
			InstallmentAmount:  e.Installment.InstallmentAmount,
			RemainingAmount:    e.Installment.RemainingAmount,
		}
	}

	return resp
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}

	return result
}

// ListEntriesResponse represents a paginated entry listing.
type ListEntriesResponse struct {
	Entries []*EntryResponse `json:"entries"`
	Total   int64            `json:"total"`
}

// CreatePurchaseResponse represents a successfully recorded purchase.
type CreatePurchaseResponse struct {
	SeriesID string           `json:"series_id"`
	Entries  []*EntryResponse `json:"entries"`
}

// PartialPurchaseResponse reports a purchase whose fan-out of writes failed
// midway. The persisted entries are real and listed; nothing was rolled
// back.
type PartialPurchaseResponse struct {
	Error          string           `json:"error"`
	SeriesID       string           `json:"series_id"`
	Persisted      []*EntryResponse `json:"persisted"`
	FailedPosition int              `json:"failed_position"`
}

// SeriesResponse represents one purchase series with its settlement
// progress.
type SeriesResponse struct {
	SeriesID string           `json:"series_id"`
	Entries  []*EntryResponse `json:"entries"`
	Progress int              `json:"progress"`
}

// CancelResponse represents the outcome of cancelling the pending rest of a
// series.
type CancelResponse struct {
	SeriesID  string           `json:"series_id"`
	Cancelled []*EntryResponse `json:"cancelled"`
}

// SummaryResponse represents the installment commitment roll-up.
type SummaryResponse struct {
	TotalCommitted decimal.Decimal `json:"total_committed"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
}

// SummaryFromDomain converts a domain summary to a response.
func SummaryFromDomain(s domain.Summary) SummaryResponse {
	return SummaryResponse{
		TotalCommitted: s.TotalCommitted,
		TotalPaid:      s.TotalPaid,
		TotalRemaining: s.TotalRemaining,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
