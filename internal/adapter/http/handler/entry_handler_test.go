package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

type entryServiceStub struct {
	createFn func(ctx context.Context, intent domain.EntryIntent) (*domain.LedgerEntry, error)
	listFn   func(ctx context.Context, filter usecase.EntryFilter) ([]*domain.LedgerEntry, error)
	getFn    func(ctx context.Context, id string) (*domain.LedgerEntry, error)
	updateFn func(ctx context.Context, id string, patch usecase.EntryPatch) (*domain.LedgerEntry, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *entryServiceStub) CreateEntry(ctx context.Context, intent domain.EntryIntent) (*domain.LedgerEntry, error) {
	return s.createFn(ctx, intent)
}

func (s *entryServiceStub) ListEntries(ctx context.Context, filter usecase.EntryFilter) ([]*domain.LedgerEntry, error) {
	return s.listFn(ctx, filter)
}

func (s *entryServiceStub) GetEntry(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	return s.getFn(ctx, id)
}

func (s *entryServiceStub) UpdateEntry(ctx context.Context, id string, patch usecase.EntryPatch) (*domain.LedgerEntry, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *entryServiceStub) DeleteEntry(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func entryRouter(h *EntryHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/entries", h.Create)
	r.Get("/entries", h.List)
	r.Get("/entries/{id}", h.Get)
	r.Patch("/entries/{id}", h.Update)
	r.Delete("/entries/{id}", h.Delete)

	return r
}

func sampleEntry() *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:          "entry-1",
		SeriesID:    "series-1",
		Description: "Laptop",
		Amount:      decimal.RequireFromString("300.00"),
		Date:        time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Status:      domain.StatusPending,
		Installment: &domain.InstallmentInfo{
			TotalInstallments:  10,
			CurrentInstallment: 4,
			TotalAmount:        decimal.RequireFromString("3000.00"),
			InstallmentAmount:  decimal.RequireFromString("300.00"),
			RemainingAmount:    decimal.RequireFromString("1800.00"),
		},
	}
}

func TestEntryHandler_Create_Success(t *testing.T) {
	var captured domain.EntryIntent
	router := entryRouter(NewEntryHandler(&entryServiceStub{
		createFn: func(ctx context.Context, intent domain.EntryIntent) (*domain.LedgerEntry, error) {
			captured = intent

			return &domain.LedgerEntry{
				ID:          "entry-9",
				Description: intent.Description,
				Amount:      intent.Amount,
				Date:        intent.Date,
				Status:      domain.StatusPending,
			}, nil
		},
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/entries",
		bytes.NewBufferString(`{"description":"Groceries","amount":42.50,"date":"2024-03-05","payment_method":"debit"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Description != "Groceries" || captured.PaymentMethod != "debit" {
		t.Fatalf("unexpected intent: %+v", captured)
	}

	if !captured.Amount.Equal(decimal.RequireFromString("42.50")) {
		t.Fatalf("expected amount 42.50, got %s", captured.Amount)
	}

	if !captured.Date.Equal(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date: %v", captured.Date)
	}

	var resp dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.ID != "entry-9" || resp.Installment != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestEntryHandler_Create_RejectsBadDate(t *testing.T) {
	router := entryRouter(NewEntryHandler(&entryServiceStub{
		createFn: func(ctx context.Context, intent domain.EntryIntent) (*domain.LedgerEntry, error) {
			t.Fatal("use case should not be called")
			return nil, nil
		},
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/entries",
		bytes.NewBufferString(`{"description":"Groceries","amount":42.50,"date":"05/03/2024"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEntryHandler_Create_ValidationError(t *testing.T) {
	router := entryRouter(NewEntryHandler(&entryServiceStub{
		createFn: func(ctx context.Context, intent domain.EntryIntent) (*domain.LedgerEntry, error) {
			return nil, domain.ErrInvalidAmount
		},
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/entries",
		bytes.NewBufferString(`{"description":"Groceries","amount":-1,"date":"2024-03-05"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEntryHandler_List_FilterFromQuery(t *testing.T) {
	var captured usecase.EntryFilter
	router := entryRouter(NewEntryHandler(&entryServiceStub{
		listFn: func(ctx context.Context, filter usecase.EntryFilter) ([]*domain.LedgerEntry, error) {
			captured = filter
			return []*domain.LedgerEntry{sampleEntry()}, nil
		},
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/entries?series_id=series-1&status=pending&from=2024-01-01&installments=true&limit=10&offset=20", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.SeriesID != "series-1" || captured.Status != domain.StatusPending {
		t.Fatalf("unexpected filter: %+v", captured)
	}

	if captured.From == nil || !captured.From.Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected parsed from date, got %+v", captured.From)
	}

	if !captured.OnlyInstallments || captured.Limit != 10 || captured.Offset != 20 {
		t.Fatalf("unexpected filter: %+v", captured)
	}

	var resp dto.ListEntriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Total != 1 || resp.Entries[0].Progress != 40 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestEntryHandler_List_RejectsBadStatus(t *testing.T) {
	router := entryRouter(NewEntryHandler(&entryServiceStub{
		listFn: func(ctx context.Context, filter usecase.EntryFilter) ([]*domain.LedgerEntry, error) {
			t.Fatal("use case should not be called")
			return nil, nil
		},
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/entries?status=paid", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEntryHandler_Get_NotFound(t *testing.T) {
	router := entryRouter(NewEntryHandler(&entryServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.LedgerEntry, error) {
			return nil, domain.ErrEntryNotFound
		},
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/entries/missing", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEntryHandler_Update_Success(t *testing.T) {
	var capturedID string
	var capturedPatch usecase.EntryPatch

	router := entryRouter(NewEntryHandler(&entryServiceStub{
		updateFn: func(ctx context.Context, id string, patch usecase.EntryPatch) (*domain.LedgerEntry, error) {
			capturedID = id
			capturedPatch = patch

			entry := sampleEntry()
			entry.Status = domain.StatusCompleted

			return entry, nil
		},
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/entries/entry-1",
		bytes.NewBufferString(`{"status":"completed"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if capturedID != "entry-1" {
		t.Fatalf("expected entry-1, got %s", capturedID)
	}

	if capturedPatch.Status == nil || *capturedPatch.Status != domain.StatusCompleted {
		t.Fatalf("unexpected patch: %+v", capturedPatch)
	}

	if capturedPatch.Description != nil || capturedPatch.Amount != nil || capturedPatch.Date != nil {
		t.Fatalf("absent fields must stay nil: %+v", capturedPatch)
	}
}

func TestEntryHandler_Update_RejectsBadStatus(t *testing.T) {
	router := entryRouter(NewEntryHandler(&entryServiceStub{
		updateFn: func(ctx context.Context, id string, patch usecase.EntryPatch) (*domain.LedgerEntry, error) {
			t.Fatal("use case should not be called")
			return nil, nil
		},
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/entries/entry-1",
		bytes.NewBufferString(`{"status":"paid"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEntryHandler_Update_ConflictWhenMutationInFlight(t *testing.T) {
	router := entryRouter(NewEntryHandler(&entryServiceStub{
		updateFn: func(ctx context.Context, id string, patch usecase.EntryPatch) (*domain.LedgerEntry, error) {
			return nil, usecase.ErrMutationInFlight
		},
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/entries/entry-1",
		bytes.NewBufferString(`{"description":"x"}`))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestEntryHandler_Delete_Success(t *testing.T) {
	var deleted string
	router := entryRouter(NewEntryHandler(&entryServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/entries/entry-1", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	if deleted != "entry-1" {
		t.Fatalf("expected entry-1 deleted, got %s", deleted)
	}
}
