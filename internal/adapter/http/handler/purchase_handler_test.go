package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/adapter/http/dto"
	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

type purchaseServiceStub struct {
	createFn func(ctx context.Context, intent domain.PurchaseIntent) ([]*domain.LedgerEntry, error)
}

func (s *purchaseServiceStub) CreatePurchase(ctx context.Context, intent domain.PurchaseIntent) ([]*domain.LedgerEntry, error) {
	return s.createFn(ctx, intent)
}

func purchaseEntries(seriesID string, n int) []*domain.LedgerEntry {
	entries := make([]*domain.LedgerEntry, n)
	for i := range entries {
		entries[i] = &domain.LedgerEntry{
			ID:          "entry-" + string(rune('a'+i)),
			SeriesID:    seriesID,
			Description: "Laptop",
			Amount:      decimal.RequireFromString("300.00"),
			Date:        time.Date(2024, time.January+time.Month(i), 15, 0, 0, 0, 0, time.UTC),
			Status:      domain.StatusPending,
			Installment: &domain.InstallmentInfo{
				TotalInstallments:  n,
				CurrentInstallment: i + 1,
				TotalAmount:        decimal.RequireFromString("3000.00"),
				InstallmentAmount:  decimal.RequireFromString("300.00"),
				RemainingAmount:    decimal.RequireFromString("2700.00"),
			},
		}
	}

	return entries
}

func TestPurchaseHandler_Create_Success(t *testing.T) {
	var captured domain.PurchaseIntent
	handler := NewPurchaseHandler(&purchaseServiceStub{
		createFn: func(ctx context.Context, intent domain.PurchaseIntent) ([]*domain.LedgerEntry, error) {
			captured = intent
			return purchaseEntries("series-1", 3), nil
		},
	})

	body, _ := json.Marshal(dto.CreatePurchaseRequest{
		Description:       "Laptop",
		TotalAmount:       decimal.RequireFromString("900.00"),
		TotalInstallments: 3,
		StartDate:         "2024-01-15",
		PaymentMethod:     "credit_card",
	})

	req := httptest.NewRequest(http.MethodPost, "/purchases", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.Description != "Laptop" || captured.TotalInstallments != 3 {
		t.Fatalf("expected intent to match request, got %+v", captured)
	}

	if !captured.StartDate.Equal(time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected parsed start date, got %s", captured.StartDate)
	}

	var resp dto.CreatePurchaseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.SeriesID != "series-1" || len(resp.Entries) != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPurchaseHandler_Create_InvalidBody(t *testing.T) {
	handler := NewPurchaseHandler(&purchaseServiceStub{
		createFn: func(ctx context.Context, intent domain.PurchaseIntent) ([]*domain.LedgerEntry, error) {
			t.Fatal("use case should not be called")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/purchases", bytes.NewBufferString(`{not json`))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPurchaseHandler_Create_InvalidStartDate(t *testing.T) {
	handler := NewPurchaseHandler(&purchaseServiceStub{
		createFn: func(ctx context.Context, intent domain.PurchaseIntent) ([]*domain.LedgerEntry, error) {
			t.Fatal("use case should not be called")
			return nil, nil
		},
	})

	body, _ := json.Marshal(dto.CreatePurchaseRequest{
		Description:       "Laptop",
		TotalAmount:       decimal.RequireFromString("900.00"),
		TotalInstallments: 3,
		StartDate:         "15/01/2024",
	})

	req := httptest.NewRequest(http.MethodPost, "/purchases", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPurchaseHandler_Create_ValidationErrorMapsTo400(t *testing.T) {
	handler := NewPurchaseHandler(&purchaseServiceStub{
		createFn: func(ctx context.Context, intent domain.PurchaseIntent) ([]*domain.LedgerEntry, error) {
			return nil, domain.ErrInvalidInstallments
		},
	})

	body, _ := json.Marshal(dto.CreatePurchaseRequest{
		Description:       "Laptop",
		TotalAmount:       decimal.RequireFromString("900.00"),
		TotalInstallments: 0,
		StartDate:         "2024-01-15",
	})

	req := httptest.NewRequest(http.MethodPost, "/purchases", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPurchaseHandler_Create_PartialFailure(t *testing.T) {
	persisted := purchaseEntries("series-2", 2)

	handler := NewPurchaseHandler(&purchaseServiceStub{
		createFn: func(ctx context.Context, intent domain.PurchaseIntent) ([]*domain.LedgerEntry, error) {
			return persisted, &usecase.PartialCreateError{
				Err:            context.DeadlineExceeded,
				SeriesID:       "series-2",
				Created:        persisted,
				FailedPosition: 3,
			}
		},
	})

	body, _ := json.Marshal(dto.CreatePurchaseRequest{
		Description:       "Laptop",
		TotalAmount:       decimal.RequireFromString("900.00"),
		TotalInstallments: 3,
		StartDate:         "2024-01-15",
	})

	req := httptest.NewRequest(http.MethodPost, "/purchases", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.PartialPurchaseResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.SeriesID != "series-2" || len(resp.Persisted) != 2 || resp.FailedPosition != 3 {
		t.Fatalf("unexpected partial response: %+v", resp)
	}
}
