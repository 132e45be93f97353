package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wakandasalud/clinic-api/internal/domain"
	"github.com/wakandasalud/clinic-api/internal/notify"
	"github.com/wakandasalud/clinic-api/internal/observability"
	"github.com/wakandasalud/clinic-api/internal/provider"
	"github.com/wakandasalud/clinic-api/internal/repository"
	"go.uber.org/zap"
)

// PhoneService manages registered contact numbers. Create and update both
// notify the contact over WhatsApp; like the invoice workflow, a failing
// notification downgrades to a warning instead of failing the request.
type PhoneService struct {
	phones     repository.PhoneRepository
	ledger     repository.NotificationRepository
	dispatcher provider.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

type PhoneInput struct {
	Name        *string
	CountryCode *string
	Number      *string
}

// PhoneResult pairs the persisted contact with the notification outcome of
// the best-effort sub-flow.
type PhoneResult struct {
	Contact            domain.PhoneContact
	NotificationID     string
	NotificationStatus domain.DeliveryOutcome
	NotificationErr    error
}

func NewPhoneService(
	phones repository.PhoneRepository,
	ledger repository.NotificationRepository,
	dispatcher provider.Dispatcher,
	metrics *observability.Metrics,
	logger *zap.Logger,
) (*PhoneService, error) {
	if phones == nil {
		return nil, fmt.Errorf("phone repository is required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("notification ledger is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PhoneService{
		phones:     phones,
		ledger:     ledger,
		dispatcher: dispatcher,
		metrics:    metrics,
		logger:     logger,
	}, nil
}

func (s *PhoneService) Create(ctx context.Context, in PhoneInput) (*PhoneResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if missing := in.missingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing fields: %s", domain.ErrValidation, strings.Join(missing, ", "))
	}

	contact := domain.PhoneContact{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(*in.Name),
		CountryCode: strings.TrimSpace(*in.CountryCode),
		Number:      strings.TrimSpace(*in.Number),
	}

	if err := s.phones.Create(ctx, &contact); err != nil {
		return nil, err
	}

	message := notify.PhoneRegisteredMessage(contact.Name)
	return s.finishWithNotification(ctx, contact, message), nil
}

func (s *PhoneService) Update(ctx context.Context, id string, in PhoneInput) (*PhoneResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: phone contact id is required", domain.ErrValidation)
	}

	existing, err := s.phones.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}

	if missing := in.missingFields(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing fields: %s", domain.ErrValidation, strings.Join(missing, ", "))
	}

	contact := domain.PhoneContact{
		ID:          existing.ID,
		Name:        strings.TrimSpace(*in.Name),
		CountryCode: strings.TrimSpace(*in.CountryCode),
		Number:      strings.TrimSpace(*in.Number),
	}

	if err := s.phones.Update(ctx, &contact); err != nil {
		return nil, err
	}

	message := notify.PhoneUpdatedMessage(contact.Name, contact.FullNumber())
	return s.finishWithNotification(ctx, contact, message), nil
}

// finishWithNotification runs the best-effort notification sub-flow shared by
// create and update. Phone notifications carry no appointment reference.
func (s *PhoneService) finishWithNotification(ctx context.Context, contact domain.PhoneContact, message string) *PhoneResult {
	result := &PhoneResult{Contact: contact}

	start := time.Now()
	outcome := s.dispatcher.Send(ctx, contact.FullNumber(), message)
	s.metrics.ObserveSendDuration(domain.ChannelWhatsApp.String(), time.Since(start))
	if outcome == domain.OutcomeSent {
		s.metrics.IncNotificationSent(domain.ChannelWhatsApp.String())
	} else {
		s.metrics.IncNotificationFailed(domain.ChannelWhatsApp.String())
	}

	record := domain.Notification{
		ID:      uuid.NewString(),
		Channel: domain.ChannelWhatsApp,
		Content: message,
		Outcome: outcome,
	}
	if err := s.ledger.Create(ctx, &record); err != nil {
		s.logger.Warn("phone contact saved but notification record failed",
			zap.String("phoneId", contact.ID),
			zap.Error(err),
		)
		result.NotificationErr = fmt.Errorf("failed to record notification: %w", err)
		return result
	}

	result.NotificationID = record.ID
	result.NotificationStatus = outcome
	return result
}

func (s *PhoneService) GetByID(ctx context.Context, id string) (*domain.PhoneContact, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: phone contact id is required", domain.ErrValidation)
	}
	return s.phones.GetByID(ctx, strings.TrimSpace(id))
}

func (s *PhoneService) List(ctx context.Context) ([]domain.PhoneContact, error) {
	return s.phones.List(ctx)
}

func (s *PhoneService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: phone contact id is required", domain.ErrValidation)
	}
	return s.phones.Delete(ctx, strings.TrimSpace(id))
}

func (in PhoneInput) missingFields() []string {
	var missing []string
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		missing = append(missing, "name")
	}
	if in.CountryCode == nil || strings.TrimSpace(*in.CountryCode) == "" {
		missing = append(missing, "country_code")
	}
	if in.Number == nil || strings.TrimSpace(*in.Number) == "" {
		missing = append(missing, "number")
	}
	return missing
}
