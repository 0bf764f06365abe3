package handler

import (
	"go-bevdistro/internal/model"
	"go-bevdistro/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AttendantHandler struct {
	catalog service.CatalogService
}

func NewAttendantHandler(catalog service.CatalogService) *AttendantHandler {
	return &AttendantHandler{catalog: catalog}
}

func (h *AttendantHandler) CreateAttendant(c *fiber.Ctx) error {
	var attendant model.Attendant
	if err := c.BodyParser(&attendant); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.catalog.CreateAttendant(&attendant); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Attendant created", "data": attendant})
}

func (h *AttendantHandler) GetAttendants(c *fiber.Ctx) error {
	attendants, err := h.catalog.GetAttendants()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(attendants)
}

func (h *AttendantHandler) GetAttendant(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid attendant ID"})
	}
	attendant, err := h.catalog.GetAttendant(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(attendant)
}

func (h *AttendantHandler) UpdateAttendant(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid attendant ID"})
	}

	var upd service.AttendantUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	attendant, err := h.catalog.UpdateAttendant(id, &upd)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Attendant updated", "data": attendant})
}

func (h *AttendantHandler) DeleteAttendant(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid attendant ID"})
	}
	if err := h.catalog.DeactivateAttendant(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Attendant deactivated"})
}
