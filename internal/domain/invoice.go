package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// InvoiceNumberPrefix is the business format every invoice number must carry.
	InvoiceNumberPrefix = "FACT-"
	// IssueDateLayout is the wire and storage format for invoice issue dates.
	IssueDateLayout = "2006-01-02"
)

// Invoice is a billing record tied to one appointment. The appointment
// reference is immutable once the invoice is created; updates rebuild every
// other field from scratch. Voided invoices stay in the store but are
// excluded from normal fetches.
type Invoice struct {
	ID            string
	AppointmentID string
	InvoiceNumber string
	IssueDate     string // YYYY-MM-DD, empty when the caller omitted it
	PatientTaxID  string
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	VoidedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Total is the invoice amount due.
func (i *Invoice) Total() decimal.Decimal {
	return i.Subtotal.Add(i.TaxAmount)
}

func (i *Invoice) Validate() error {
	if strings.TrimSpace(i.AppointmentID) == "" {
		return fmt.Errorf("%w: appointment id is required", ErrValidation)
	}
	if strings.TrimSpace(i.InvoiceNumber) == "" {
		return fmt.Errorf("%w: invoice number is required", ErrValidation)
	}
	if strings.TrimSpace(i.PatientTaxID) == "" {
		return fmt.Errorf("%w: patient tax id is required", ErrValidation)
	}
	return nil
}

// ValidateNumberPrefix enforces the FACT- business format. Only the update
// path applies it; historical records created before the rule keep whatever
// number they were created with.
func ValidateNumberPrefix(invoiceNumber string) error {
	if !strings.HasPrefix(invoiceNumber, InvoiceNumberPrefix) {
		return fmt.Errorf("%w: invoice number must start with %q", ErrValidation, InvoiceNumberPrefix)
	}
	return nil
}

// NormalizeIssueDate re-derives a stored issue date before re-persisting.
// A parseable date is kept verbatim; anything else is replaced with now.
func NormalizeIssueDate(stored string, now time.Time) string {
	trimmed := strings.TrimSpace(stored)
	if _, err := time.Parse(IssueDateLayout, trimmed); err == nil {
		return trimmed
	}
	return now.Format(IssueDateLayout)
}

// FormatTotal renders a money amount for display, rounded half-up to two
// decimal places.
func FormatTotal(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
