package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/wakandasalud/clinic-api/internal/domain"
	"github.com/wakandasalud/clinic-api/internal/repository"
)

// NotificationService is the read side of the notification ledger. Writes
// happen only inside the invoice and phone workflows.
type NotificationService struct {
	ledger repository.NotificationRepository
}

func NewNotificationService(ledger repository.NotificationRepository) (*NotificationService, error) {
	if ledger == nil {
		return nil, fmt.Errorf("notification ledger is required")
	}
	return &NotificationService{ledger: ledger}, nil
}

func (s *NotificationService) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: notification id is required", domain.ErrValidation)
	}
	return s.ledger.GetByID(ctx, strings.TrimSpace(id))
}

func (s *NotificationService) List(ctx context.Context) ([]domain.Notification, error) {
	return s.ledger.List(ctx)
}
