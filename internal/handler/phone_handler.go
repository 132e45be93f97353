package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/wakandasalud/clinic-api/internal/domain"
	"github.com/wakandasalud/clinic-api/internal/service"
)

type PhoneService interface {
	Create(ctx context.Context, in service.PhoneInput) (*service.PhoneResult, error)
	Update(ctx context.Context, id string, in service.PhoneInput) (*service.PhoneResult, error)
	GetByID(ctx context.Context, id string) (*domain.PhoneContact, error)
	List(ctx context.Context) ([]domain.PhoneContact, error)
	Delete(ctx context.Context, id string) error
}

type PhoneHandler struct {
	service PhoneService
}

func NewPhoneHandler(service PhoneService) (*PhoneHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("phone service is required")
	}
	return &PhoneHandler{service: service}, nil
}

func RegisterPhoneRoutes(router fiber.Router, service PhoneService) error {
	h, err := NewPhoneHandler(service)
	if err != nil {
		return err
	}

	phones := router.Group("/v1/phones")
	phones.Get("/", h.ListPhones)
	phones.Post("/add", h.CreatePhone)
	phones.Put("/update/:id", h.UpdatePhone)
	phones.Delete("/delete/:id", h.DeletePhone)
	phones.Get("/:id", h.GetPhone)

	return nil
}

type phoneRequest struct {
	Name        *string `json:"name"`
	CountryCode *string `json:"country_code"`
	Number      *string `json:"number"`
}

type phoneResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
	Number      string `json:"number"`
}

type phoneSavedData struct {
	ID                 string `json:"id"`
	NotificationID     string `json:"notification_id,omitempty"`
	NotificationStatus string `json:"notification_status,omitempty"`
}

func (h *PhoneHandler) CreatePhone(c *fiber.Ctx) error {
	var req phoneRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Create(c.Context(), service.PhoneInput{
		Name:        req.Name,
		CountryCode: req.CountryCode,
		Number:      req.Number,
	})
	if err != nil {
		return toHTTPError(err)
	}

	data := phoneSavedData{ID: result.Contact.ID}

	if result.NotificationErr != nil {
		return respondDegraded(c, fiber.StatusCreated,
			"phone contact registered but notification failed", data, result.NotificationErr)
	}

	data.NotificationID = result.NotificationID
	data.NotificationStatus = result.NotificationStatus.String()
	return respond(c, fiber.StatusCreated, "phone contact registered and notification sent", data)
}

func (h *PhoneHandler) UpdatePhone(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))

	var req phoneRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Update(c.Context(), id, service.PhoneInput{
		Name:        req.Name,
		CountryCode: req.CountryCode,
		Number:      req.Number,
	})
	if err != nil {
		return toHTTPError(err)
	}

	data := phoneSavedData{ID: result.Contact.ID}

	if result.NotificationErr != nil {
		return respondDegraded(c, fiber.StatusOK,
			"phone contact updated but notification failed", data, result.NotificationErr)
	}

	data.NotificationID = result.NotificationID
	data.NotificationStatus = result.NotificationStatus.String()
	return respond(c, fiber.StatusOK, "phone contact updated and notification sent", data)
}

func (h *PhoneHandler) GetPhone(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))

	contact, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return respond(c, fiber.StatusOK, "phone contact found", toPhoneResponse(contact))
}

func (h *PhoneHandler) ListPhones(c *fiber.Ctx) error {
	contacts, err := h.service.List(c.Context())
	if err != nil {
		return toHTTPError(err)
	}

	responses := make([]phoneResponse, 0, len(contacts))
	for i := range contacts {
		responses = append(responses, toPhoneResponse(&contacts[i]))
	}

	return respondList(c, "phone contact list", responses, len(responses))
}

func (h *PhoneHandler) DeletePhone(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))

	if err := h.service.Delete(c.Context(), id); err != nil {
		return toHTTPError(err)
	}

	return respond(c, fiber.StatusOK, "phone contact deleted", phoneSavedData{ID: id})
}

func toPhoneResponse(p *domain.PhoneContact) phoneResponse {
	if p == nil {
		return phoneResponse{}
	}

	return phoneResponse{
		ID:          p.ID,
		Name:        p.Name,
		CountryCode: p.CountryCode,
		Number:      p.Number,
	}
}
