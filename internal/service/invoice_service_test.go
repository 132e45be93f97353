package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wakandasalud/clinic-api/internal/domain"
)

type fakeInvoiceRepo struct {
	created  []domain.Invoice
	updated  []domain.Invoice
	voided   []string
	byID     map[string]domain.Invoice
	failWith error
}

func (f *fakeInvoiceRepo) Create(_ context.Context, invoice *domain.Invoice) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.created = append(f.created, *invoice)
	return nil
}

func (f *fakeInvoiceRepo) GetByID(_ context.Context, id string) (*domain.Invoice, error) {
	invoice, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: invoice %s", domain.ErrNotFound, id)
	}
	return &invoice, nil
}

func (f *fakeInvoiceRepo) List(_ context.Context) ([]domain.Invoice, error) {
	out := make([]domain.Invoice, 0, len(f.byID))
	for _, invoice := range f.byID {
		out = append(out, invoice)
	}
	return out, nil
}

func (f *fakeInvoiceRepo) Update(_ context.Context, invoice *domain.Invoice) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.updated = append(f.updated, *invoice)
	return nil
}

func (f *fakeInvoiceRepo) Void(_ context.Context, id string) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.voided = append(f.voided, id)
	return nil
}

type fakeAppointmentRepo struct {
	appointment *domain.Appointment
	err         error
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id string) (*domain.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.appointment == nil || f.appointment.ID != id {
		return nil, fmt.Errorf("%w: appointment %s", domain.ErrNotFound, id)
	}
	return f.appointment, nil
}

type fakePatientRepo struct {
	patient *domain.Patient
	err     error
}

func (f *fakePatientRepo) GetByID(_ context.Context, id string) (*domain.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.patient == nil || f.patient.ID != id {
		return nil, fmt.Errorf("%w: patient %s", domain.ErrNotFound, id)
	}
	return f.patient, nil
}

type fakeLedger struct {
	records  []domain.Notification
	failWith error
}

func (f *fakeLedger) Create(_ context.Context, notification *domain.Notification) error {
	if f.failWith != nil {
		return f.failWith
	}
	f.records = append(f.records, *notification)
	return nil
}

func (f *fakeLedger) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	for i := range f.records {
		if f.records[i].ID == id {
			return &f.records[i], nil
		}
	}
	return nil, fmt.Errorf("%w: notification %s", domain.ErrNotFound, id)
}

func (f *fakeLedger) List(_ context.Context) ([]domain.Notification, error) {
	return f.records, nil
}

type fakeDispatcher struct {
	outcome      domain.DeliveryOutcome
	destinations []string
	contents     []string
}

func (f *fakeDispatcher) Send(_ context.Context, destination, content string) domain.DeliveryOutcome {
	f.destinations = append(f.destinations, destination)
	f.contents = append(f.contents, content)
	return f.outcome
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validCreateInput() CreateInvoiceInput {
	return CreateInvoiceInput{
		AppointmentID: strPtr("appt-1"),
		InvoiceNumber: strPtr("FACT-001"),
		IssueDate:     strPtr("2026-03-15"),
		PatientTaxID:  strPtr("0614-120390-102-3"),
		Subtotal:      decPtr("10.00"),
		TaxAmount:     decPtr("1.30"),
	}
}

func newTestInvoiceService(t *testing.T, invoices *fakeInvoiceRepo, appointments *fakeAppointmentRepo, patients *fakePatientRepo, ledger *fakeLedger, dispatcher *fakeDispatcher) *InvoiceService {
	t.Helper()

	svc, err := NewInvoiceService(invoices, appointments, patients, ledger, dispatcher, "+503", nil, nil)
	if err != nil {
		t.Fatalf("NewInvoiceService() error = %v", err)
	}
	svc.now = func() time.Time {
		return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	}
	return svc
}

func TestInvoiceServiceCreate(t *testing.T) {
	t.Parallel()

	t.Run("persists and notifies", func(t *testing.T) {
		t.Parallel()

		invoices := &fakeInvoiceRepo{}
		appointments := &fakeAppointmentRepo{appointment: &domain.Appointment{ID: "appt-1", PatientID: "pat-1"}}
		patients := &fakePatientRepo{patient: &domain.Patient{ID: "pat-1", Name: "Ana Morales", Phone: "7012-3456"}}
		ledger := &fakeLedger{}
		dispatcher := &fakeDispatcher{outcome: domain.OutcomeSent}
		svc := newTestInvoiceService(t, invoices, appointments, patients, ledger, dispatcher)

		result, err := svc.Create(context.Background(), validCreateInput())
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if result.NotificationErr != nil {
			t.Fatalf("NotificationErr = %v, want nil", result.NotificationErr)
		}
		if result.NotificationStatus != domain.OutcomeSent {
			t.Errorf("NotificationStatus = %q, want %q", result.NotificationStatus, domain.OutcomeSent)
		}
		if len(invoices.created) != 1 {
			t.Fatalf("created %d invoices, want 1", len(invoices.created))
		}
		if invoices.created[0].ID == "" {
			t.Error("invoice ID was not assigned")
		}

		if len(dispatcher.destinations) != 1 {
			t.Fatalf("dispatched %d messages, want 1", len(dispatcher.destinations))
		}
		if got, want := dispatcher.destinations[0], "+50370123456"; got != want {
			t.Errorf("destination = %q, want %q", got, want)
		}
		if !strings.Contains(dispatcher.contents[0], "FACT-001") {
			t.Errorf("message %q does not mention the invoice number", dispatcher.contents[0])
		}
		if !strings.Contains(dispatcher.contents[0], "$11.30") {
			t.Errorf("message %q does not carry the formatted total", dispatcher.contents[0])
		}

		if len(ledger.records) != 1 {
			t.Fatalf("recorded %d notifications, want 1", len(ledger.records))
		}
		record := ledger.records[0]
		if record.Outcome != domain.OutcomeSent {
			t.Errorf("recorded outcome = %q, want %q", record.Outcome, domain.OutcomeSent)
		}
		if record.AppointmentID == nil || *record.AppointmentID != "appt-1" {
			t.Errorf("recorded appointment ref = %v, want appt-1", record.AppointmentID)
		}
		if record.Channel != domain.ChannelWhatsApp {
			t.Errorf("recorded channel = %q, want %q", record.Channel, domain.ChannelWhatsApp)
		}
	})

	t.Run("enumerates every missing field", func(t *testing.T) {
		t.Parallel()

		svc := newTestInvoiceService(t, &fakeInvoiceRepo{}, &fakeAppointmentRepo{}, &fakePatientRepo{}, &fakeLedger{}, &fakeDispatcher{})

		_, err := svc.Create(context.Background(), CreateInvoiceInput{
			InvoiceNumber: strPtr("   "),
		})
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("Create() error = %v, want ErrValidation", err)
		}

		for _, field := range []string{"appointment_id", "invoice_number", "patient_tax_id", "subtotal", "tax_amount"} {
			if !strings.Contains(err.Error(), field) {
				t.Errorf("error %q does not name missing field %q", err, field)
			}
		}
	})

	t.Run("missing appointment degrades without losing the invoice", func(t *testing.T) {
		t.Parallel()

		invoices := &fakeInvoiceRepo{}
		ledger := &fakeLedger{}
		dispatcher := &fakeDispatcher{outcome: domain.OutcomeSent}
		svc := newTestInvoiceService(t, invoices, &fakeAppointmentRepo{}, &fakePatientRepo{}, ledger, dispatcher)

		result, err := svc.Create(context.Background(), validCreateInput())
		if err != nil {
			t.Fatalf("Create() error = %v, want nil (degraded result)", err)
		}

		if result.NotificationErr == nil {
			t.Fatal("NotificationErr = nil, want lookup failure")
		}
		if !errors.Is(result.NotificationErr, domain.ErrNotFound) {
			t.Errorf("NotificationErr = %v, want wrapped ErrNotFound", result.NotificationErr)
		}
		if len(invoices.created) != 1 {
			t.Errorf("created %d invoices, want 1", len(invoices.created))
		}
		if len(dispatcher.destinations) != 0 {
			t.Errorf("dispatched %d messages, want 0", len(dispatcher.destinations))
		}
		if len(ledger.records) != 0 {
			t.Errorf("recorded %d notifications, want 0", len(ledger.records))
		}
	})

	t.Run("failed dispatch is still recorded as failed", func(t *testing.T) {
		t.Parallel()

		invoices := &fakeInvoiceRepo{}
		appointments := &fakeAppointmentRepo{appointment: &domain.Appointment{ID: "appt-1", PatientID: "pat-1"}}
		patients := &fakePatientRepo{patient: &domain.Patient{ID: "pat-1", Name: "Ana Morales", Phone: "70123456"}}
		ledger := &fakeLedger{}
		svc := newTestInvoiceService(t, invoices, appointments, patients, ledger, &fakeDispatcher{outcome: domain.OutcomeFailed})

		result, err := svc.Create(context.Background(), validCreateInput())
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		if result.NotificationErr != nil {
			t.Fatalf("NotificationErr = %v, want nil: a failed send is an outcome, not a sub-flow error", result.NotificationErr)
		}
		if result.NotificationStatus != domain.OutcomeFailed {
			t.Errorf("NotificationStatus = %q, want %q", result.NotificationStatus, domain.OutcomeFailed)
		}
		if len(ledger.records) != 1 || ledger.records[0].Outcome != domain.OutcomeFailed {
			t.Errorf("ledger records = %+v, want one failed record", ledger.records)
		}
	})

	t.Run("ledger write failure degrades the result", func(t *testing.T) {
		t.Parallel()

		invoices := &fakeInvoiceRepo{}
		appointments := &fakeAppointmentRepo{appointment: &domain.Appointment{ID: "appt-1", PatientID: "pat-1"}}
		patients := &fakePatientRepo{patient: &domain.Patient{ID: "pat-1", Phone: "70123456"}}
		ledger := &fakeLedger{failWith: errors.New("ledger down")}
		svc := newTestInvoiceService(t, invoices, appointments, patients, ledger, &fakeDispatcher{outcome: domain.OutcomeSent})

		result, err := svc.Create(context.Background(), validCreateInput())
		if err != nil {
			t.Fatalf("Create() error = %v, want nil (degraded result)", err)
		}
		if result.NotificationErr == nil {
			t.Fatal("NotificationErr = nil, want ledger failure")
		}
		if len(invoices.created) != 1 {
			t.Errorf("created %d invoices, want 1", len(invoices.created))
		}
	})

	t.Run("persistence failure propagates", func(t *testing.T) {
		t.Parallel()

		invoices := &fakeInvoiceRepo{failWith: fmt.Errorf("%w: failed to create invoice", domain.ErrPersistence)}
		dispatcher := &fakeDispatcher{outcome: domain.OutcomeSent}
		svc := newTestInvoiceService(t, invoices, &fakeAppointmentRepo{}, &fakePatientRepo{}, &fakeLedger{}, dispatcher)

		_, err := svc.Create(context.Background(), validCreateInput())
		if !errors.Is(err, domain.ErrPersistence) {
			t.Fatalf("Create() error = %v, want ErrPersistence", err)
		}
		if len(dispatcher.destinations) != 0 {
			t.Error("notification sub-flow ran despite failed persistence")
		}
	})
}

func TestInvoiceServiceUpdate(t *testing.T) {
	t.Parallel()

	stored := domain.Invoice{
		ID:            "inv-1",
		AppointmentID: "appt-9",
		InvoiceNumber: "FACT-001",
		IssueDate:     "2026-01-10",
		PatientTaxID:  "0614-120390-102-3",
		Subtotal:      decimal.RequireFromString("10.00"),
		TaxAmount:     decimal.RequireFromString("1.30"),
	}

	validUpdate := func() UpdateInvoiceInput {
		return UpdateInvoiceInput{
			InvoiceNumber: strPtr("FACT-002"),
			PatientTaxID:  strPtr("0614-120390-102-3"),
			Subtotal:      decPtr("20.00"),
			TaxAmount:     decPtr("2.60"),
		}
	}

	t.Run("preserves the appointment reference", func(t *testing.T) {
		t.Parallel()

		invoices := &fakeInvoiceRepo{byID: map[string]domain.Invoice{"inv-1": stored}}
		svc := newTestInvoiceService(t, invoices, &fakeAppointmentRepo{}, &fakePatientRepo{}, &fakeLedger{}, &fakeDispatcher{})

		updated, err := svc.Update(context.Background(), "inv-1", validUpdate())
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		if updated.AppointmentID != "appt-9" {
			t.Errorf("AppointmentID = %q, want preserved %q", updated.AppointmentID, "appt-9")
		}
		if updated.InvoiceNumber != "FACT-002" {
			t.Errorf("InvoiceNumber = %q, want FACT-002", updated.InvoiceNumber)
		}
		if updated.IssueDate != "2026-01-10" {
			t.Errorf("IssueDate = %q, want stored date kept", updated.IssueDate)
		}
		if len(invoices.updated) != 1 {
			t.Fatalf("persisted %d updates, want 1", len(invoices.updated))
		}
	})

	t.Run("rejects a number without the required prefix", func(t *testing.T) {
		t.Parallel()

		invoices := &fakeInvoiceRepo{byID: map[string]domain.Invoice{"inv-1": stored}}
		svc := newTestInvoiceService(t, invoices, &fakeAppointmentRepo{}, &fakePatientRepo{}, &fakeLedger{}, &fakeDispatcher{})

		in := validUpdate()
		in.InvoiceNumber = strPtr("INV-002")

		_, err := svc.Update(context.Background(), "inv-1", in)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("Update() error = %v, want ErrValidation", err)
		}
		if len(invoices.updated) != 0 {
			t.Error("update persisted despite invalid invoice number")
		}
	})

	t.Run("re-derives an unparsable stored issue date", func(t *testing.T) {
		t.Parallel()

		corrupted := stored
		corrupted.IssueDate = "not-a-date"
		invoices := &fakeInvoiceRepo{byID: map[string]domain.Invoice{"inv-1": corrupted}}
		svc := newTestInvoiceService(t, invoices, &fakeAppointmentRepo{}, &fakePatientRepo{}, &fakeLedger{}, &fakeDispatcher{})

		updated, err := svc.Update(context.Background(), "inv-1", validUpdate())
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if updated.IssueDate != "2026-03-15" {
			t.Errorf("IssueDate = %q, want re-derived 2026-03-15", updated.IssueDate)
		}
	})

	t.Run("unknown invoice", func(t *testing.T) {
		t.Parallel()

		invoices := &fakeInvoiceRepo{byID: map[string]domain.Invoice{}}
		svc := newTestInvoiceService(t, invoices, &fakeAppointmentRepo{}, &fakePatientRepo{}, &fakeLedger{}, &fakeDispatcher{})

		_, err := svc.Update(context.Background(), "missing", validUpdate())
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("Update() error = %v, want ErrNotFound", err)
		}
	})
}

func TestInvoiceServiceVoid(t *testing.T) {
	t.Parallel()

	t.Run("requires an id", func(t *testing.T) {
		t.Parallel()

		svc := newTestInvoiceService(t, &fakeInvoiceRepo{}, &fakeAppointmentRepo{}, &fakePatientRepo{}, &fakeLedger{}, &fakeDispatcher{})

		if err := svc.Void(context.Background(), "  "); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("Void() error = %v, want ErrValidation", err)
		}
	})

	t.Run("delegates to the repository", func(t *testing.T) {
		t.Parallel()

		invoices := &fakeInvoiceRepo{}
		svc := newTestInvoiceService(t, invoices, &fakeAppointmentRepo{}, &fakePatientRepo{}, &fakeLedger{}, &fakeDispatcher{})

		if err := svc.Void(context.Background(), "inv-1"); err != nil {
			t.Fatalf("Void() error = %v", err)
		}
		if len(invoices.voided) != 1 || invoices.voided[0] != "inv-1" {
			t.Errorf("voided = %v, want [inv-1]", invoices.voided)
		}
	})
}
