package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/fintrack/internal/domain"
	"github.com/iho/fintrack/internal/usecase"
)

const entryColumns = `id, series_id, description, amount, date, status, payment_method,
	total_installments, current_installment, total_amount, installment_amount, remaining_amount,
	created_at, updated_at`

// Gateway implements usecase.LedgerGateway on a local PostgreSQL database.
// It is the self-hosted alternative to the remote REST store and keeps the
// same contract: every call is one independent statement, no cross-entry
// transaction.
type Gateway struct {
	pool *pgxpool.Pool
}

// NewGateway creates a new Gateway.
func NewGateway(pool *pgxpool.Pool) *Gateway {
	return &Gateway{pool: pool}
}

// Create persists one entry.
func (g *Gateway) Create(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	now := time.Now().UTC()

	row := g.pool.QueryRow(ctx, `
		INSERT INTO ledger_entries (
			id, series_id, description, amount, date, status, payment_method,
			total_installments, current_installment, total_amount, installment_amount, remaining_amount,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		RETURNING `+entryColumns,
		entry.ID,
		nullString(entry.SeriesID),
		entry.Description,
		decimalToNumeric(entry.Amount),
		dateToPgDate(entry.Date),
		string(entry.Status),
		nullString(entry.PaymentMethod),
		installmentInt(entry, func(i *domain.InstallmentInfo) int { return i.TotalInstallments }),
		installmentInt(entry, func(i *domain.InstallmentInfo) int { return i.CurrentInstallment }),
		installmentNumeric(entry, func(i *domain.InstallmentInfo) decimal.Decimal { return i.TotalAmount }),
		installmentNumeric(entry, func(i *domain.InstallmentInfo) decimal.Decimal { return i.InstallmentAmount }),
		installmentNumeric(entry, func(i *domain.InstallmentInfo) decimal.Decimal { return i.RemainingAmount }),
		timeToPgTimestamptz(now),
	)

	return scanEntry(row)
}

// Update applies a partial mutation to one entry.
func (g *Gateway) Update(ctx context.Context, id string, patch usecase.EntryPatch) (*domain.LedgerEntry, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}

	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Amount != nil {
		add("amount", decimalToNumeric(*patch.Amount))
	}
	if patch.Date != nil {
		add("date", dateToPgDate(*patch.Date))
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}

	row := g.pool.QueryRow(ctx, fmt.Sprintf(
		`UPDATE ledger_entries SET %s WHERE id = $1 RETURNING %s`,
		strings.Join(sets, ", "), entryColumns,
	), args...)

	entry, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}

	return entry, err
}

// Delete removes one entry.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	tag, err := g.pool.Exec(ctx, `DELETE FROM ledger_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrEntryNotFound
	}

	return nil
}

// List retrieves entries matching the filter, newest date first.
func (g *Gateway) List(ctx context.Context, filter usecase.EntryFilter) ([]*domain.LedgerEntry, error) {
	where := []string{"true"}
	args := []any{}

	cond := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if filter.ID != "" {
		cond("id = $%d", filter.ID)
	}
	if filter.SeriesID != "" {
		cond("series_id = $%d", filter.SeriesID)
	}
	if filter.Status != "" {
		cond("status = $%d", string(filter.Status))
	}
	if filter.From != nil {
		cond("date >= $%d", dateToPgDate(*filter.From))
	}
	if filter.To != nil {
		cond("date <= $%d", dateToPgDate(*filter.To))
	}
	if filter.OnlyInstallments {
		where = append(where, "total_installments IS NOT NULL")
	}

	query := fmt.Sprintf(
		`SELECT %s FROM ledger_entries WHERE %s ORDER BY date DESC, id DESC`,
		entryColumns, strings.Join(where, " AND "),
	)

	if filter.Limit > 0 {
		query += " LIMIT " + strconv.Itoa(filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET " + strconv.Itoa(filter.Offset)
	}

	rows, err := g.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.LedgerEntry, 0)

	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func scanEntry(row pgx.Row) (*domain.LedgerEntry, error) {
	var (
		entry              domain.LedgerEntry
		seriesID           pgtype.Text
		paymentMethod      pgtype.Text
		amount             pgtype.Numeric
		date               pgtype.Date
		status             string
		totalInstallments  pgtype.Int4
		currentInstallment pgtype.Int4
		totalAmount        pgtype.Numeric
		installmentAmount  pgtype.Numeric
		remainingAmount    pgtype.Numeric
		createdAt          pgtype.Timestamptz
		updatedAt          pgtype.Timestamptz
	)

	err := row.Scan(
		&entry.ID, &seriesID, &entry.Description, &amount, &date, &status, &paymentMethod,
		&totalInstallments, &currentInstallment, &totalAmount, &installmentAmount, &remainingAmount,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.SeriesID = seriesID.String
	entry.PaymentMethod = paymentMethod.String
	entry.Amount = numericToDecimal(amount)
	entry.Date = date.Time
	entry.Status = domain.EntryStatus(status)
	entry.CreatedAt = createdAt.Time
	entry.UpdatedAt = updatedAt.Time

	if totalInstallments.Valid {
		entry.Installment = &domain.InstallmentInfo{
			TotalInstallments:  int(totalInstallments.Int32),
			CurrentInstallment: int(currentInstallment.Int32),
			TotalAmount:        numericToDecimal(totalAmount),
			InstallmentAmount:  numericToDecimal(installmentAmount),
			RemainingAmount:    numericToDecimal(remainingAmount),
		}
	}

	return &entry, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func dateToPgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}

func nullString(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func installmentInt(e *domain.LedgerEntry, pick func(*domain.InstallmentInfo) int) pgtype.Int4 {
	if e.Installment == nil {
		return pgtype.Int4{}
	}

	return pgtype.Int4{Int32: int32(pick(e.Installment)), Valid: true}
}

func installmentNumeric(e *domain.LedgerEntry, pick func(*domain.InstallmentInfo) decimal.Decimal) pgtype.Numeric {
	if e.Installment == nil {
		return pgtype.Numeric{}
	}

	return decimalToNumeric(pick(e.Installment))
}
