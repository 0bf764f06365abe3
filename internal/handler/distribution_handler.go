package handler

import (
	"go-bevdistro/internal/model"
	"go-bevdistro/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DistributionHandler struct {
	ledger service.LedgerService
}

func NewDistributionHandler(ledger service.LedgerService) *DistributionHandler {
	return &DistributionHandler{ledger: ledger}
}

// CreateDistribution records a delivery. An overdraw comes back as 400 with
// the standard "Insufficient stock. Available: n, Requested: m" message.
func (h *DistributionHandler) CreateDistribution(c *fiber.Ctx) error {
	var dist model.Distribution
	if err := c.BodyParser(&dist); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.ledger.RecordDistribution(&dist); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Distribution recorded", "data": dist})
}

func (h *DistributionHandler) GetDistributions(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", 100)
	offset := queryInt(c, "offset", 0)
	dists, err := h.ledger.GetDistributions(limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dists)
}

func (h *DistributionHandler) GetDistribution(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid distribution ID"})
	}
	dist, err := h.ledger.GetDistribution(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dist)
}

func (h *DistributionHandler) GetDistributionsByMess(c *fiber.Ctx) error {
	messID, err := parseUUID(c.Params("messId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid mess ID"})
	}
	dists, err := h.ledger.GetDistributionsByMess(messID, queryInt(c, "limit", 100))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dists)
}

func (h *DistributionHandler) GetDistributionsByProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("productId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	dists, err := h.ledger.GetDistributionsByProduct(productID, queryInt(c, "limit", 100))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dists)
}

func (h *DistributionHandler) GetRecentDistributions(c *fiber.Ctx) error {
	dists, err := h.ledger.RecentDistributions(queryInt(c, "days", 30), queryInt(c, "limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dists)
}

func (h *DistributionHandler) UpdateDistribution(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid distribution ID"})
	}

	var upd service.DistributionUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	dist, err := h.ledger.UpdateDistribution(id, &upd)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Distribution updated", "data": dist})
}

func (h *DistributionHandler) DeleteDistribution(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid distribution ID"})
	}
	if err := h.ledger.DeleteDistribution(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Distribution deleted"})
}
