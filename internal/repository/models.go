package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wakandasalud/clinic-api/internal/domain"
)

// InvoiceModel is the persistence model for the invoices table.
type InvoiceModel struct {
	ID            string          `gorm:"type:uuid;primaryKey"`
	AppointmentID string          `gorm:"type:uuid;not null"`
	InvoiceNumber string          `gorm:"type:varchar(50);not null"`
	IssueDate     *time.Time      `gorm:"type:date"`
	PatientTaxID  string          `gorm:"type:varchar(20);not null"`
	Subtotal      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TaxAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	VoidedAt      *time.Time      `gorm:"type:timestamptz"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (InvoiceModel) TableName() string {
	return "invoices"
}

// NotificationModel is the persistence model for the notifications table.
type NotificationModel struct {
	ID            string                 `gorm:"type:uuid;primaryKey"`
	AppointmentID *string                `gorm:"type:uuid"`
	Channel       domain.Channel         `gorm:"type:varchar(20);not null"`
	Content       string                 `gorm:"type:text;not null"`
	Outcome       domain.DeliveryOutcome `gorm:"type:varchar(10);not null"`
	CreatedAt     time.Time
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// PhoneContactModel is the persistence model for the phone_contacts table.
type PhoneContactModel struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Name        string `gorm:"type:varchar(100);not null"`
	CountryCode string `gorm:"type:varchar(8);not null"`
	Number      string `gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PhoneContactModel) TableName() string {
	return "phone_contacts"
}

// AppointmentModel maps the appointments table. The scheduling module owns
// it; this API only reads.
type AppointmentModel struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	PatientID string `gorm:"type:uuid;not null"`
}

func (AppointmentModel) TableName() string {
	return "appointments"
}

// PatientModel maps the patients table, read-only.
type PatientModel struct {
	ID    string `gorm:"type:uuid;primaryKey;column:id"`
	Name  string `gorm:"type:varchar(100);column:name"`
	Phone string `gorm:"type:varchar(20);column:phone"`
	TaxID string `gorm:"type:varchar(20);column:tax_id"`
}

func (PatientModel) TableName() string {
	return "patients"
}

func invoiceModelFromDomain(i *domain.Invoice) *InvoiceModel {
	if i == nil {
		return nil
	}

	return &InvoiceModel{
		ID:            i.ID,
		AppointmentID: i.AppointmentID,
		InvoiceNumber: i.InvoiceNumber,
		IssueDate:     issueDateToColumn(i.IssueDate),
		PatientTaxID:  i.PatientTaxID,
		Subtotal:      i.Subtotal,
		TaxAmount:     i.TaxAmount,
		VoidedAt:      i.VoidedAt,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

func invoiceModelToDomain(m *InvoiceModel) *domain.Invoice {
	if m == nil {
		return nil
	}

	return &domain.Invoice{
		ID:            m.ID,
		AppointmentID: m.AppointmentID,
		InvoiceNumber: m.InvoiceNumber,
		IssueDate:     issueDateFromColumn(m.IssueDate),
		PatientTaxID:  m.PatientTaxID,
		Subtotal:      m.Subtotal,
		TaxAmount:     m.TaxAmount,
		VoidedAt:      m.VoidedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// issueDateToColumn converts the wire-format issue date to a date column
// value. An empty or unparsable string persists as NULL; the update path has
// already normalized by then.
func issueDateToColumn(issueDate string) *time.Time {
	if issueDate == "" {
		return nil
	}
	parsed, err := time.Parse(domain.IssueDateLayout, issueDate)
	if err != nil {
		return nil
	}
	return &parsed
}

func issueDateFromColumn(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format(domain.IssueDateLayout)
}

func notificationModelFromDomain(n *domain.Notification) *NotificationModel {
	if n == nil {
		return nil
	}

	return &NotificationModel{
		ID:            n.ID,
		AppointmentID: n.AppointmentID,
		Channel:       n.Channel,
		Content:       n.Content,
		Outcome:       n.Outcome,
		CreatedAt:     n.CreatedAt,
	}
}

func notificationModelToDomain(m *NotificationModel) *domain.Notification {
	if m == nil {
		return nil
	}

	return &domain.Notification{
		ID:            m.ID,
		AppointmentID: m.AppointmentID,
		Channel:       m.Channel,
		Content:       m.Content,
		Outcome:       m.Outcome,
		CreatedAt:     m.CreatedAt,
	}
}

func phoneModelFromDomain(p *domain.PhoneContact) *PhoneContactModel {
	if p == nil {
		return nil
	}

	return &PhoneContactModel{
		ID:          p.ID,
		Name:        p.Name,
		CountryCode: p.CountryCode,
		Number:      p.Number,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func phoneModelToDomain(m *PhoneContactModel) *domain.PhoneContact {
	if m == nil {
		return nil
	}

	return &domain.PhoneContact{
		ID:          m.ID,
		Name:        m.Name,
		CountryCode: m.CountryCode,
		Number:      m.Number,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
