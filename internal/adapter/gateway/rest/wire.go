package rest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
)

// wireDateLayout is the ISO-8601 date form the remote store uses.
const wireDateLayout = "2006-01-02"

// wireEntry is the persisted/transmitted form of a ledger entry. Amounts
// travel as JSON numbers and are parsed from their decimal text, never
// through float64.
type wireEntry struct {
	ID              string          `json:"id"`
	Description     string          `json:"description"`
	Amount          json.Number     `json:"amount"`
	Date            string          `json:"date"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"paymentMethod,omitempty"`
	SeriesID        string          `json:"seriesId,omitempty"`
	IsInstallment   bool            `json:"isInstallment"`
	InstallmentInfo json.RawMessage `json:"installmentInfo"`
}

// wireInstallmentInfo mirrors domain.InstallmentInfo on the wire.
type wireInstallmentInfo struct {
	TotalInstallments  int         `json:"totalInstallments"`
	CurrentInstallment int         `json:"currentInstallment"`
	TotalAmount        json.Number `json:"totalAmount"`
	InstallmentAmount  json.Number `json:"installmentAmount"`
	RemainingAmount    json.Number `json:"remainingAmount"`
}

// encodeEntry converts a domain entry to its wire form. installmentInfo is
// an explicit JSON null, not an empty object, when the entry is not part of
// a series.
func encodeEntry(e *domain.LedgerEntry) (*wireEntry, error) {
	w := &wireEntry{
		ID:              e.ID,
		Description:     e.Description,
		Amount:          numberFromDecimal(e.Amount),
		Date:            e.Date.Format(wireDateLayout),
		Status:          string(e.Status),
		PaymentMethod:   e.PaymentMethod,
		SeriesID:        e.SeriesID,
		IsInstallment:   e.Installment != nil,
		InstallmentInfo: json.RawMessage("null"),
	}

	if e.Installment != nil {
		info, err := json.Marshal(wireInstallmentInfo{
			TotalInstallments:  e.Installment.TotalInstallments,
			CurrentInstallment: e.Installment.CurrentInstallment,
			TotalAmount:        numberFromDecimal(e.Installment.TotalAmount),
			InstallmentAmount:  numberFromDecimal(e.Installment.InstallmentAmount),
			RemainingAmount:    numberFromDecimal(e.Installment.RemainingAmount),
		})
		if err != nil {
			return nil, fmt.Errorf("encode installment info: %w", err)
		}

		w.InstallmentInfo = info
	}

	return w, nil
}

// decodeEntry converts a wire record back to a domain entry.
//
// A present but unparseable installmentInfo degrades this one record to a
// plain non-installment entry instead of failing the whole response; the
// returned bool reports whether that degradation happened.
func decodeEntry(w *wireEntry) (*domain.LedgerEntry, bool, error) {
	amount, err := decimalFromNumber(w.Amount)
	if err != nil {
		return nil, false, fmt.Errorf("entry %s: bad amount: %w", w.ID, err)
	}

	date, err := time.Parse(wireDateLayout, w.Date)
	if err != nil {
		return nil, false, fmt.Errorf("entry %s: bad date: %w", w.ID, err)
	}

	entry := &domain.LedgerEntry{
		ID:            w.ID,
		SeriesID:      w.SeriesID,
		Description:   w.Description,
		Amount:        amount,
		Date:          date,
		Status:        domain.EntryStatus(w.Status),
		PaymentMethod: w.PaymentMethod,
	}

	if !w.IsInstallment || isNullRaw(w.InstallmentInfo) {
		return entry, false, nil
	}

	info, err := decodeInstallmentInfo(w.InstallmentInfo)
	if err != nil {
		return entry, true, nil
	}

	entry.Installment = info

	return entry, false, nil
}

func decodeInstallmentInfo(raw json.RawMessage) (*domain.InstallmentInfo, error) {
	var w wireInstallmentInfo
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, err
	}

	total, err := decimalFromNumber(w.TotalAmount)
	if err != nil {
		return nil, err
	}

	installment, err := decimalFromNumber(w.InstallmentAmount)
	if err != nil {
		return nil, err
	}

	remaining, err := decimalFromNumber(w.RemainingAmount)
	if err != nil {
		return nil, err
	}

	info := &domain.InstallmentInfo{
		TotalInstallments:  w.TotalInstallments,
		CurrentInstallment: w.CurrentInstallment,
		TotalAmount:        total,
		InstallmentAmount:  installment,
		RemainingAmount:    remaining,
	}

	if err := info.Validate(); err != nil {
		return nil, err
	}

	return info, nil
}

func isNullRaw(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func numberFromDecimal(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func decimalFromNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, fmt.Errorf("missing number")
	}

	return decimal.NewFromString(n.String())
}
