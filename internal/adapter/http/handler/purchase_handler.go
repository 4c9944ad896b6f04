package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// PurchaseService defines the behavior needed by PurchaseHandler.
type PurchaseService interface {
	CreatePurchase(ctx context.Context, intent domain.PurchaseIntent) ([]*domain.LedgerEntry, error)
}

// PurchaseHandler handles purchase-related HTTP requests.
type PurchaseHandler struct {
	purchaseUC PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchaseUC PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseUC: purchaseUC}
}

// Create records a credit purchase, fanning it out into one ledger entry
// per installment.
func (h *PurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	intent, err := req.ToIntent()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid purchase", err.Error())
		return
	}

	entries, err := h.purchaseUC.CreatePurchase(r.Context(), intent)
	if err != nil {
		var partial *usecase.PartialCreateError
		if errors.As(err, &partial) {
			// Some installments were persisted before the store failed.
			// Report them; the client decides whether to retry or clean up.
			writeJSON(w, http.StatusBadGateway, dto.PartialPurchaseResponse{
				Error:          "purchase persisted partially",
				SeriesID:       partial.SeriesID,
				Persisted:      dto.EntriesFromDomain(partial.Created),
				FailedPosition: partial.FailedPosition,
			})

			return
		}

		status := mapDomainError(err)
		writeError(w, status, "failed to create purchase", err.Error())

		return
	}

	resp := dto.CreatePurchaseResponse{
		Entries: dto.EntriesFromDomain(entries),
	}
	if len(entries) > 0 {
		resp.SeriesID = entries[0].SeriesID
	}

	writeJSON(w, http.StatusCreated, resp)
}
