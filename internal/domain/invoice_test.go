package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestInvoiceValidate(t *testing.T) {
	t.Parallel()

	base := Invoice{
		AppointmentID: "apt-1",
		InvoiceNumber: "FACT-001",
		PatientTaxID:  "0614-123456-101-2",
		Subtotal:      decimal.NewFromFloat(10),
		TaxAmount:     decimal.NewFromFloat(1.3),
	}

	tests := []struct {
		name    string
		mutate  func(i *Invoice)
		wantErr bool
	}{
		{name: "valid", mutate: func(i *Invoice) {}},
		{name: "missing appointment id", mutate: func(i *Invoice) { i.AppointmentID = " " }, wantErr: true},
		{name: "missing invoice number", mutate: func(i *Invoice) { i.InvoiceNumber = "" }, wantErr: true},
		{name: "missing patient tax id", mutate: func(i *Invoice) { i.PatientTaxID = "" }, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			invoice := base
			tt.mutate(&invoice)

			err := invoice.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Fatalf("Validate() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error = %v", err)
			}
		})
	}
}

func TestValidateNumberPrefix(t *testing.T) {
	t.Parallel()

	if err := ValidateNumberPrefix("FACT-2024-001"); err != nil {
		t.Fatalf("ValidateNumberPrefix() unexpected error = %v", err)
	}

	err := ValidateNumberPrefix("INV-2024-001")
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("ValidateNumberPrefix() error = %v, want ErrValidation", err)
	}
}

func TestNormalizeIssueDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		stored string
		want   string
	}{
		{name: "valid date kept verbatim", stored: "2024-11-03", want: "2024-11-03"},
		{name: "valid date with spaces trimmed", stored: " 2024-11-03 ", want: "2024-11-03"},
		{name: "empty replaced with now", stored: "", want: "2025-06-15"},
		{name: "garbage replaced with now", stored: "03/11/2024", want: "2025-06-15"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeIssueDate(tt.stored, now); got != tt.want {
				t.Fatalf("NormalizeIssueDate(%q) = %s, want %s", tt.stored, got, tt.want)
			}
		})
	}
}

func TestInvoiceTotalRounding(t *testing.T) {
	t.Parallel()

	invoice := Invoice{
		Subtotal:  decimal.RequireFromString("10.005"),
		TaxAmount: decimal.RequireFromString("2.00"),
	}

	// Half-up to two decimals: 12.005 rounds to 12.01.
	if got := FormatTotal(invoice.Total()); got != "12.01" {
		t.Fatalf("FormatTotal() = %s, want 12.01", got)
	}

	invoice.Subtotal = decimal.RequireFromString("10.004")
	if got := FormatTotal(invoice.Total()); got != "12.00" {
		t.Fatalf("FormatTotal() = %s, want 12.00", got)
	}
}
