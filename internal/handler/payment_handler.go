package handler

import (
	"go-bevdistro/internal/model"
	"go-bevdistro/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PaymentHandler struct {
	payments service.PaymentService
}

func NewPaymentHandler(payments service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

func (h *PaymentHandler) CreatePayment(c *fiber.Ctx) error {
	var payment model.Payment
	if err := c.BodyParser(&payment); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.payments.RecordPayment(&payment); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Payment recorded", "data": payment})
}

func (h *PaymentHandler) GetPayments(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", 100)
	offset := queryInt(c, "offset", 0)
	payments, err := h.payments.GetPayments(limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payments)
}

func (h *PaymentHandler) GetPayment(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid payment ID"})
	}
	payment, err := h.payments.GetPayment(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payment)
}

func (h *PaymentHandler) GetPaymentsByMess(c *fiber.Ctx) error {
	messID, err := parseUUID(c.Params("messId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid mess ID"})
	}
	payments, err := h.payments.GetPaymentsByMess(messID, queryInt(c, "limit", 100))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(payments)
}

// GetMessBalance reports distributed value, total paid, and the outstanding
// balance for one mess.
func (h *PaymentHandler) GetMessBalance(c *fiber.Ctx) error {
	messID, err := parseUUID(c.Params("messId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid mess ID"})
	}
	summary, err := h.payments.GetMessFinancialSummary(messID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

func (h *PaymentHandler) GetAllBalances(c *fiber.Ctx) error {
	summaries, err := h.payments.GetAllMessFinancialSummaries()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summaries)
}

func (h *PaymentHandler) UpdatePayment(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid payment ID"})
	}

	var upd service.PaymentUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	payment, err := h.payments.UpdatePayment(id, &upd)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment updated", "data": payment})
}

func (h *PaymentHandler) DeletePayment(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid payment ID"})
	}
	if err := h.payments.DeletePayment(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Payment deleted"})
}
