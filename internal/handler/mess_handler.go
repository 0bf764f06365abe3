package handler

import (
	"go-bevdistro/internal/model"
	"go-bevdistro/internal/service"

	"github.com/gofiber/fiber/v2"
)

type MessHandler struct {
	catalog service.CatalogService
}

func NewMessHandler(catalog service.CatalogService) *MessHandler {
	return &MessHandler{catalog: catalog}
}

func (h *MessHandler) CreateMess(c *fiber.Ctx) error {
	var mess model.Mess
	if err := c.BodyParser(&mess); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if err := h.catalog.CreateMess(&mess); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Mess created", "data": mess})
}

func (h *MessHandler) GetMesses(c *fiber.Ctx) error {
	messes, err := h.catalog.GetMesses()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(messes)
}

func (h *MessHandler) GetMess(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid mess ID"})
	}
	mess, err := h.catalog.GetMess(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(mess)
}

func (h *MessHandler) UpdateMess(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid mess ID"})
	}

	var upd service.MessUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	mess, err := h.catalog.UpdateMess(id, &upd)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Mess updated", "data": mess})
}

func (h *MessHandler) DeleteMess(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid mess ID"})
	}
	if err := h.catalog.DeactivateMess(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Mess deactivated"})
}

func (h *MessHandler) GetMessAttendants(c *fiber.Ctx) error {
	messID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid mess ID"})
	}
	attendants, err := h.catalog.GetAttendantsByMess(messID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(attendants)
}
