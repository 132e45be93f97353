package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/wakandasalud/clinic-api/internal/domain"
	"github.com/wakandasalud/clinic-api/internal/service"
)

type InvoiceService interface {
	Create(ctx context.Context, in service.CreateInvoiceInput) (*service.CreateInvoiceResult, error)
	Update(ctx context.Context, id string, in service.UpdateInvoiceInput) (*domain.Invoice, error)
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	List(ctx context.Context) ([]domain.Invoice, error)
	Void(ctx context.Context, id string) error
}

type InvoiceHandler struct {
	service InvoiceService
}

func NewInvoiceHandler(service InvoiceService) (*InvoiceHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("invoice service is required")
	}
	return &InvoiceHandler{service: service}, nil
}

func RegisterInvoiceRoutes(router fiber.Router, service InvoiceService) error {
	h, err := NewInvoiceHandler(service)
	if err != nil {
		return err
	}

	invoices := router.Group("/v1/invoices")
	invoices.Get("/", h.ListInvoices)
	invoices.Post("/add", h.CreateInvoice)
	invoices.Put("/update/:id", h.UpdateInvoice)
	invoices.Delete("/delete/:id", h.VoidInvoice)
	invoices.Get("/:id", h.GetInvoice)

	return nil
}

type createInvoiceRequest struct {
	AppointmentID *string          `json:"appointment_id"`
	InvoiceNumber *string          `json:"invoice_number"`
	IssueDate     *string          `json:"issue_date"`
	PatientTaxID  *string          `json:"patient_tax_id"`
	Subtotal      *decimal.Decimal `json:"subtotal"`
	TaxAmount     *decimal.Decimal `json:"tax_amount"`
}

type updateInvoiceRequest struct {
	InvoiceNumber *string          `json:"invoice_number"`
	PatientTaxID  *string          `json:"patient_tax_id"`
	Subtotal      *decimal.Decimal `json:"subtotal"`
	TaxAmount     *decimal.Decimal `json:"tax_amount"`
}

type invoiceResponse struct {
	ID            string          `json:"id"`
	AppointmentID string          `json:"appointment_id"`
	InvoiceNumber string          `json:"invoice_number"`
	IssueDate     string          `json:"issue_date,omitempty"`
	PatientTaxID  string          `json:"patient_tax_id"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
}

type invoiceCreatedData struct {
	ID                 string `json:"id"`
	NotificationStatus string `json:"notification_status,omitempty"`
}

type invoiceUpdatedData struct {
	ID string `json:"id"`
}

func (h *InvoiceHandler) CreateInvoice(c *fiber.Ctx) error {
	var req createInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Create(c.Context(), service.CreateInvoiceInput{
		AppointmentID: req.AppointmentID,
		InvoiceNumber: req.InvoiceNumber,
		IssueDate:     req.IssueDate,
		PatientTaxID:  req.PatientTaxID,
		Subtotal:      req.Subtotal,
		TaxAmount:     req.TaxAmount,
	})
	if err != nil {
		return toHTTPError(err)
	}

	data := invoiceCreatedData{ID: result.Invoice.ID}

	if result.NotificationErr != nil {
		return respondDegraded(c, fiber.StatusCreated,
			"invoice created but notification failed", data, result.NotificationErr)
	}

	data.NotificationStatus = result.NotificationStatus.String()
	return respond(c, fiber.StatusCreated, "invoice created and notification sent", data)
}

func (h *InvoiceHandler) UpdateInvoice(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))

	var req updateInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	invoice, err := h.service.Update(c.Context(), id, service.UpdateInvoiceInput{
		InvoiceNumber: req.InvoiceNumber,
		PatientTaxID:  req.PatientTaxID,
		Subtotal:      req.Subtotal,
		TaxAmount:     req.TaxAmount,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return respond(c, fiber.StatusOK, "invoice updated", invoiceUpdatedData{ID: invoice.ID})
}

func (h *InvoiceHandler) GetInvoice(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))

	invoice, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return respond(c, fiber.StatusOK, "invoice found", toInvoiceResponse(invoice))
}

func (h *InvoiceHandler) ListInvoices(c *fiber.Ctx) error {
	invoices, err := h.service.List(c.Context())
	if err != nil {
		return toHTTPError(err)
	}

	responses := make([]invoiceResponse, 0, len(invoices))
	for i := range invoices {
		responses = append(responses, toInvoiceResponse(&invoices[i]))
	}

	return respondList(c, "invoice list", responses, len(responses))
}

func (h *InvoiceHandler) VoidInvoice(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))

	if err := h.service.Void(c.Context(), id); err != nil {
		return toHTTPError(err)
	}

	return respond(c, fiber.StatusOK, "invoice voided", invoiceUpdatedData{ID: id})
}

func toInvoiceResponse(i *domain.Invoice) invoiceResponse {
	if i == nil {
		return invoiceResponse{}
	}

	return invoiceResponse{
		ID:            i.ID,
		AppointmentID: i.AppointmentID,
		InvoiceNumber: i.InvoiceNumber,
		IssueDate:     i.IssueDate,
		PatientTaxID:  i.PatientTaxID,
		Subtotal:      i.Subtotal,
		TaxAmount:     i.TaxAmount,
		Total:         i.Total(),
	}
}
