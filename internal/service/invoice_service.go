package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wakandasalud/clinic-api/internal/domain"
	"github.com/wakandasalud/clinic-api/internal/notify"
	"github.com/wakandasalud/clinic-api/internal/observability"
	"github.com/wakandasalud/clinic-api/internal/provider"
	"github.com/wakandasalud/clinic-api/internal/repository"
	"go.uber.org/zap"
)

// InvoiceService orchestrates the invoice workflow: validate, persist, then
// best-effort patient notification. The notification sub-flow can fail
// without failing the request; the invoice write is the primary effect and
// is never rolled back.
type InvoiceService struct {
	invoices     repository.InvoiceRepository
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	ledger       repository.NotificationRepository
	dispatcher   provider.Dispatcher
	countryCode  string
	metrics      *observability.Metrics
	logger       *zap.Logger
	now          func() time.Time
}

// CreateInvoiceInput is the typed create request. Pointer fields distinguish
// an absent key from a present-but-empty value; both count as missing.
type CreateInvoiceInput struct {
	AppointmentID *string
	InvoiceNumber *string
	IssueDate     *string
	PatientTaxID  *string
	Subtotal      *decimal.Decimal
	TaxAmount     *decimal.Decimal
}

// UpdateInvoiceInput deliberately has no appointment field: the appointment
// reference is immutable and always re-read from the stored record.
type UpdateInvoiceInput struct {
	InvoiceNumber *string
	PatientTaxID  *string
	Subtotal      *decimal.Decimal
	TaxAmount     *decimal.Decimal
}

// CreateInvoiceResult is the composite outcome of the create workflow.
// Exactly one of NotificationStatus / NotificationErr is set when the
// sub-flow ran: a status when a dispatch attempt was recorded, an error when
// the sub-flow broke before or after dispatching.
type CreateInvoiceResult struct {
	Invoice            domain.Invoice
	NotificationStatus domain.DeliveryOutcome
	NotificationErr    error
}

func NewInvoiceService(
	invoices repository.InvoiceRepository,
	appointments repository.AppointmentRepository,
	patients repository.PatientRepository,
	ledger repository.NotificationRepository,
	dispatcher provider.Dispatcher,
	countryCode string,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*InvoiceService, error) {
	if invoices == nil {
		return nil, fmt.Errorf("invoice repository is required")
	}
	if appointments == nil || patients == nil {
		return nil, fmt.Errorf("appointment and patient lookups are required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("notification ledger is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if strings.TrimSpace(countryCode) == "" {
		countryCode = notify.DefaultCountryCode
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &InvoiceService{
		invoices:     invoices,
		appointments: appointments,
		patients:     patients,
		ledger:       ledger,
		dispatcher:   dispatcher,
		countryCode:  countryCode,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}, nil
}

func (s *InvoiceService) Create(ctx context.Context, in CreateInvoiceInput) (*CreateInvoiceResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if missing := in.missingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing fields: %s", domain.ErrValidation, strings.Join(missing, ", "))
	}

	invoice := domain.Invoice{
		ID:            uuid.NewString(),
		AppointmentID: strings.TrimSpace(*in.AppointmentID),
		InvoiceNumber: strings.TrimSpace(*in.InvoiceNumber),
		PatientTaxID:  strings.TrimSpace(*in.PatientTaxID),
		Subtotal:      *in.Subtotal,
		TaxAmount:     *in.TaxAmount,
	}
	if in.IssueDate != nil {
		invoice.IssueDate = strings.TrimSpace(*in.IssueDate)
	}

	if err := s.invoices.Create(ctx, &invoice); err != nil {
		return nil, err
	}
	s.metrics.IncInvoiceCreated()

	result := &CreateInvoiceResult{Invoice: invoice}

	outcome, err := s.notifyInvoiceCreated(ctx, &invoice)
	if err != nil {
		s.logger.Warn("invoice created but notification failed",
			zap.String("invoiceId", invoice.ID),
			zap.String("appointmentId", invoice.AppointmentID),
			zap.Error(err),
		)
		result.NotificationErr = err
		return result, nil
	}

	result.NotificationStatus = outcome
	return result, nil
}

// notifyInvoiceCreated runs the best-effort notification sub-flow. A returned
// error means the sub-flow broke (missing appointment or patient, ledger
// write failure); a failed provider call is not an error here, it comes back
// as the failed outcome and is still recorded in the ledger.
func (s *InvoiceService) notifyInvoiceCreated(ctx context.Context, invoice *domain.Invoice) (domain.DeliveryOutcome, error) {
	appointment, err := s.appointments.GetByID(ctx, invoice.AppointmentID)
	if err != nil {
		return "", fmt.Errorf("associated appointment not found: %w", err)
	}

	patient, err := s.patients.GetByID(ctx, appointment.PatientID)
	if err != nil {
		return "", fmt.Errorf("patient not found: %w", err)
	}

	message := notify.InvoiceIssuedMessage(invoice.InvoiceNumber, s.now(), invoice.Total())
	destination := notify.NormalizeNumber(patient.Phone, s.countryCode)

	start := time.Now()
	outcome := s.dispatcher.Send(ctx, destination, message)
	s.metrics.ObserveSendDuration(domain.ChannelWhatsApp.String(), time.Since(start))
	s.recordOutcomeMetric(outcome)

	record := domain.Notification{
		ID:            uuid.NewString(),
		AppointmentID: &invoice.AppointmentID,
		Channel:       domain.ChannelWhatsApp,
		Content:       message,
		Outcome:       outcome,
	}
	if err := s.ledger.Create(ctx, &record); err != nil {
		return outcome, fmt.Errorf("failed to record notification: %w", err)
	}

	return outcome, nil
}

func (s *InvoiceService) Update(ctx context.Context, id string, in UpdateInvoiceInput) (*domain.Invoice, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: invoice id is required", domain.ErrValidation)
	}

	existing, err := s.invoices.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	if missing := in.missingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing fields: %s", domain.ErrValidation, strings.Join(missing, ", "))
	}
	if err := domain.ValidateNumberPrefix(strings.TrimSpace(*in.InvoiceNumber)); err != nil {
		return nil, err
	}

	rebuilt := domain.Invoice{
		ID:            existing.ID,
		AppointmentID: existing.AppointmentID, // immutable, never taken from input
		InvoiceNumber: strings.TrimSpace(*in.InvoiceNumber),
		IssueDate:     domain.NormalizeIssueDate(existing.IssueDate, s.now()),
		PatientTaxID:  strings.TrimSpace(*in.PatientTaxID),
		Subtotal:      *in.Subtotal,
		TaxAmount:     *in.TaxAmount,
	}

	if err := s.invoices.Update(ctx, &rebuilt); err != nil {
		return nil, err
	}

	return &rebuilt, nil
}

func (s *InvoiceService) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: invoice id is required", domain.ErrValidation)
	}
	return s.invoices.GetByID(ctx, strings.TrimSpace(id))
}

func (s *InvoiceService) List(ctx context.Context) ([]domain.Invoice, error) {
	return s.invoices.List(ctx)
}

func (s *InvoiceService) Void(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: invoice id is required", domain.ErrValidation)
	}
	return s.invoices.Void(ctx, strings.TrimSpace(id))
}

func (s *InvoiceService) recordOutcomeMetric(outcome domain.DeliveryOutcome) {
	channel := domain.ChannelWhatsApp.String()
	if outcome == domain.OutcomeSent {
		s.metrics.IncNotificationSent(channel)
		return
	}
	s.metrics.IncNotificationFailed(channel)
}

func (in CreateInvoiceInput) missingFields() []string {
	var missing []string
	if in.AppointmentID == nil || strings.TrimSpace(*in.AppointmentID) == "" {
		missing = append(missing, "appointment_id")
	}
	if in.InvoiceNumber == nil || strings.TrimSpace(*in.InvoiceNumber) == "" {
		missing = append(missing, "invoice_number")
	}
	if in.PatientTaxID == nil || strings.TrimSpace(*in.PatientTaxID) == "" {
		missing = append(missing, "patient_tax_id")
	}
	if in.Subtotal == nil {
		missing = append(missing, "subtotal")
	}
	if in.TaxAmount == nil {
		missing = append(missing, "tax_amount")
	}
	return missing
}

func (in UpdateInvoiceInput) missingFields() []string {
	var missing []string
	if in.InvoiceNumber == nil || strings.TrimSpace(*in.InvoiceNumber) == "" {
		missing = append(missing, "invoice_number")
	}
	if in.PatientTaxID == nil || strings.TrimSpace(*in.PatientTaxID) == "" {
		missing = append(missing, "patient_tax_id")
	}
	if in.Subtotal == nil {
		missing = append(missing, "subtotal")
	}
	if in.TaxAmount == nil {
		missing = append(missing, "tax_amount")
	}
	return missing
}
