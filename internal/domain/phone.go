package domain

import (
	"fmt"
	"strings"
	"time"
)

// PhoneContact is a registered contact number. Unlike invoices, contacts are
// not business records: delete removes the row for real.
type PhoneContact struct {
	ID          string
	Name        string
	CountryCode string
	Number      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *PhoneContact) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if strings.TrimSpace(p.CountryCode) == "" {
		return fmt.Errorf("%w: country code is required", ErrValidation)
	}
	if strings.TrimSpace(p.Number) == "" {
		return fmt.Errorf("%w: number is required", ErrValidation)
	}
	return nil
}

// FullNumber is the dialable destination for this contact.
func (p *PhoneContact) FullNumber() string {
	return p.CountryCode + p.Number
}
