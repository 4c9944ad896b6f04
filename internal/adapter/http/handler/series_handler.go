package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

// SeriesService defines the behavior needed by SeriesHandler.
type SeriesService interface {
	GetSeries(ctx context.Context, seriesID string) ([]*domain.LedgerEntry, error)
	CancelRemaining(ctx context.Context, seriesID string) ([]*domain.LedgerEntry, error)
}

// SeriesHandler handles purchase-series HTTP requests.
type SeriesHandler struct {
	seriesUC SeriesService
}

// NewSeriesHandler creates a new SeriesHandler.
func NewSeriesHandler(seriesUC SeriesService) *SeriesHandler {
	return &SeriesHandler{seriesUC: seriesUC}
}

// Get retrieves every entry of one purchase series.
func (h *SeriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	seriesID := chi.URLParam(r, "id")
	if seriesID == "" {
		writeError(w, http.StatusBadRequest, "missing series ID", "")
		return
	}

	entries, err := h.seriesUC.GetSeries(r.Context(), seriesID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get series", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SeriesResponse{
		SeriesID: seriesID,
		Entries:  dto.EntriesFromDomain(entries),
		Progress: domain.SettledProgress(entries),
	})
}

// CancelRemaining marks every still-pending installment of a series as
// cancelled. Completed installments are never touched.
func (h *SeriesHandler) CancelRemaining(w http.ResponseWriter, r *http.Request) {
	seriesID := chi.URLParam(r, "id")
	if seriesID == "" {
		writeError(w, http.StatusBadRequest, "missing series ID", "")
		return
	}

	cancelled, err := h.seriesUC.CancelRemaining(r.Context(), seriesID)
	if err != nil {
		var cancelErr *usecase.CancelError
		if errors.As(err, &cancelErr) {
			// Some cancellations went through; the response reflects the
			// actual state, not the intent.
			writeJSON(w, http.StatusBadGateway, dto.CancelResponse{
				SeriesID:  seriesID,
				Cancelled: dto.EntriesFromDomain(cancelled),
			})

			return
		}

		writeError(w, mapDomainError(err), "failed to cancel series", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.CancelResponse{
		SeriesID:  seriesID,
		Cancelled: dto.EntriesFromDomain(cancelled),
	})
}
