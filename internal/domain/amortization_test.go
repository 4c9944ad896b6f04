package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewScheduleExactSum(t *testing.T) {
	tests := []struct {
		name         string
		total        string
		installments int
		want         []string
	}{
		{
			name:         "even split",
			total:        "3000.00",
			installments: 10,
			want:         []string{"300", "300", "300", "300", "300", "300", "300", "300", "300", "300"},
		},
		{
			name:         "last absorbs remainder",
			total:        "100.00",
			installments: 3,
			want:         []string{"33.33", "33.33", "33.34"},
		},
		{
			name:         "single installment identity",
			total:        "49.99",
			installments: 1,
			want:         []string{"49.99"},
		},
		{
			name:         "remainder larger than a cent",
			total:        "10.00",
			installments: 7,
			want:         []string{"1.42", "1.42", "1.42", "1.42", "1.42", "1.42", "1.48"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := decimal.RequireFromString(tt.total)

			s, err := NewSchedule(total, tt.installments)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			sum := decimal.Zero
			for pos := 1; pos <= tt.installments; pos++ {
				amount, err := s.Amount(pos)
				if err != nil {
					t.Fatalf("Amount(%d): %v", pos, err)
				}

				want := decimal.RequireFromString(tt.want[pos-1])
				if !amount.Equal(want) {
					t.Errorf("Amount(%d) = %s, want %s", pos, amount, want)
				}

				sum = sum.Add(amount)
			}

			if !sum.Equal(total) {
				t.Fatalf("installments sum to %s, want %s", sum, total)
			}
		})
	}
}

func TestNewScheduleExactSumSweep(t *testing.T) {
	// Property check across the range the tracker actually allows.
	totals := []string{"0.01", "1.00", "99.99", "100.00", "1234.56", "3000.00", "999999.99"}

	for _, ts := range totals {
		total := decimal.RequireFromString(ts)
		for n := 1; n <= 60; n++ {
			s, err := NewSchedule(total, n)
			if err != nil {
				t.Fatalf("NewSchedule(%s, %d): %v", ts, n, err)
			}

			sum := decimal.Zero
			for pos := 1; pos <= n; pos++ {
				amount, _ := s.Amount(pos)
				sum = sum.Add(amount)
			}

			if !sum.Equal(total) {
				t.Fatalf("NewSchedule(%s, %d): sum %s != total", ts, n, sum)
			}
		}
	}
}

func TestScheduleRemaining(t *testing.T) {
	s, err := NewSchedule(decimal.RequireFromString("100.00"), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wants := []string{"66.67", "33.34", "0"}
	prev := decimal.RequireFromString("100.00")

	for pos := 1; pos <= 3; pos++ {
		remaining, err := s.Remaining(pos)
		if err != nil {
			t.Fatalf("Remaining(%d): %v", pos, err)
		}

		want := decimal.RequireFromString(wants[pos-1])
		if !remaining.Equal(want) {
			t.Errorf("Remaining(%d) = %s, want %s", pos, remaining, want)
		}

		// Strictly decreasing down to zero.
		if !remaining.LessThan(prev) {
			t.Errorf("Remaining(%d) = %s, not less than %s", pos, remaining, prev)
		}
		prev = remaining
	}
}

func TestNewScheduleRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name         string
		total        string
		installments int
		wantErr      error
	}{
		{"zero installments", "100.00", 0, ErrInvalidInstallments},
		{"negative installments", "100.00", -3, ErrInvalidInstallments},
		{"zero amount", "0", 3, ErrInvalidAmount},
		{"negative amount", "-10.00", 3, ErrInvalidAmount},
		{"sub-cent amount", "10.005", 3, ErrSubMinorUnit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSchedule(decimal.RequireFromString(tt.total), tt.installments)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestComputeInstallment(t *testing.T) {
	amount, remaining, err := ComputeInstallment(decimal.RequireFromString("3000.00"), 10, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !amount.Equal(decimal.RequireFromString("300.00")) {
		t.Errorf("amount = %s, want 300.00", amount)
	}

	if !remaining.Equal(decimal.RequireFromString("2700.00")) {
		t.Errorf("remaining = %s, want 2700.00", remaining)
	}

	if _, _, err := ComputeInstallment(decimal.RequireFromString("3000.00"), 10, 11); !errors.Is(err, ErrPositionOutOfRange) {
		t.Fatalf("expected ErrPositionOutOfRange, got %v", err)
	}

	if _, _, err := ComputeInstallment(decimal.RequireFromString("3000.00"), 10, 0); !errors.Is(err, ErrPositionOutOfRange) {
		t.Fatalf("expected ErrPositionOutOfRange, got %v", err)
	}
}

func TestSingleInstallmentIdentity(t *testing.T) {
	total := decimal.RequireFromString("250.50")

	amount, remaining, err := ComputeInstallment(total, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !amount.Equal(total) {
		t.Errorf("amount = %s, want %s", amount, total)
	}

	if !remaining.IsZero() {
		t.Errorf("remaining = %s, want 0", remaining)
	}
}

func ExampleComputeInstallment() {
	amount, remaining, _ := ComputeInstallment(decimal.RequireFromString("100.00"), 3, 3)
	fmt.Println(amount, remaining)
	// Output: 33.34 0.00
}
