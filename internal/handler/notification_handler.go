package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/wakandasalud/clinic-api/internal/domain"
)

type NotificationService interface {
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	List(ctx context.Context) ([]domain.Notification, error)
}

// NotificationHandler exposes the read side of the notification ledger.
// Records are written only by the invoice and phone workflows.
type NotificationHandler struct {
	service NotificationService
}

func NewNotificationHandler(service NotificationService) (*NotificationHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("notification service is required")
	}
	return &NotificationHandler{service: service}, nil
}

func RegisterNotificationRoutes(router fiber.Router, service NotificationService) error {
	h, err := NewNotificationHandler(service)
	if err != nil {
		return err
	}

	notifications := router.Group("/v1/notifications")
	notifications.Get("/", h.ListNotifications)
	notifications.Get("/:id", h.GetNotification)

	return nil
}

type notificationResponse struct {
	ID            string    `json:"id"`
	AppointmentID *string   `json:"appointment_id,omitempty"`
	Channel       string    `json:"channel"`
	Content       string    `json:"content"`
	Outcome       string    `json:"outcome"`
	CreatedAt     time.Time `json:"created_at"`
}

func (h *NotificationHandler) GetNotification(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))

	notification, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return respond(c, fiber.StatusOK, "notification found", toNotificationResponse(notification))
}

func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	notifications, err := h.service.List(c.Context())
	if err != nil {
		return toHTTPError(err)
	}

	responses := make([]notificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, toNotificationResponse(&notifications[i]))
	}

	return respondList(c, "notification list", responses, len(responses))
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	if n == nil {
		return notificationResponse{}
	}

	return notificationResponse{
		ID:            n.ID,
		AppointmentID: n.AppointmentID,
		Channel:       n.Channel.String(),
		Content:       n.Content,
		Outcome:       n.Outcome.String(),
		CreatedAt:     n.CreatedAt,
	}
}
