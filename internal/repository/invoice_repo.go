package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wakandasalud/clinic-api/internal/domain"
	"gorm.io/gorm"
)

// InvoiceRepository is the invoice persistence port. Writes report an
// unexpected affected-row count as domain.ErrPersistence; fetches exclude
// voided invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	List(ctx context.Context) ([]domain.Invoice, error)
	Update(ctx context.Context, invoice *domain.Invoice) error
	Void(ctx context.Context, id string) error
}

type GormInvoiceRepo struct {
	db *gorm.DB
}

func NewGormInvoiceRepo(db *gorm.DB) *GormInvoiceRepo {
	return &GormInvoiceRepo{db: db}
}

func (r *GormInvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	model := invoiceModelFromDomain(invoice)
	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("%w: invoice was not created", domain.ErrPersistence)
	}
	if invoice != nil {
		*invoice = *invoiceModelToDomain(model)
	}
	return nil
}

func (r *GormInvoiceRepo) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	var model InvoiceModel
	err := r.db.WithContext(ctx).
		Where("voided_at IS NULL").
		First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return invoiceModelToDomain(&model), nil
}

func (r *GormInvoiceRepo) List(ctx context.Context) ([]domain.Invoice, error) {
	var models []InvoiceModel
	err := r.db.WithContext(ctx).
		Where("voided_at IS NULL").
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	invoices := make([]domain.Invoice, 0, len(models))
	for i := range models {
		invoices = append(invoices, *invoiceModelToDomain(&models[i]))
	}
	return invoices, nil
}

func (r *GormInvoiceRepo) Update(ctx context.Context, invoice *domain.Invoice) error {
	if invoice == nil {
		return fmt.Errorf("%w: invoice is required", domain.ErrValidation)
	}

	model := invoiceModelFromDomain(invoice)
	result := r.db.WithContext(ctx).
		Model(&InvoiceModel{}).
		Where("id = ? AND voided_at IS NULL", invoice.ID).
		Updates(map[string]any{
			"invoice_number": model.InvoiceNumber,
			"issue_date":     model.IssueDate,
			"patient_tax_id": model.PatientTaxID,
			"subtotal":       model.Subtotal,
			"tax_amount":     model.TaxAmount,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("%w: invoice was not updated", domain.ErrPersistence)
	}
	return nil
}

func (r *GormInvoiceRepo) Void(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Model(&InvoiceModel{}).
		Where("id = ? AND voided_at IS NULL", id).
		Update("voided_at", time.Now().UTC())
	if result.Error != nil {
		return result.Error
	}
	// Voiding twice hits zero rows and reports the same failure.
	if result.RowsAffected != 1 {
		return fmt.Errorf("%w: invoice was not voided", domain.ErrPersistence)
	}
	return nil
}
