package handler

import (
	"go-bevdistro/internal/model"
	"go-bevdistro/internal/service"

	"github.com/gofiber/fiber/v2"
)

// StockHandler covers the receipt side of the ledger: recording purchases and
// reading availability.
type StockHandler struct {
	ledger service.LedgerService
}

func NewStockHandler(ledger service.LedgerService) *StockHandler {
	return &StockHandler{ledger: ledger}
}

func (h *StockHandler) AddStock(c *fiber.Ctx) error {
	var receipt model.StockReceipt
	if err := c.BodyParser(&receipt); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.ledger.ReceiveStock(&receipt); err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Stock added", "data": receipt})
}

func (h *StockHandler) GetReceipts(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", 100)
	offset := queryInt(c, "offset", 0)
	receipts, err := h.ledger.GetReceipts(limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(receipts)
}

func (h *StockHandler) GetReceipt(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}
	receipt, err := h.ledger.GetReceipt(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(receipt)
}

func (h *StockHandler) GetReceiptsByProduct(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("productId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	receipts, err := h.ledger.GetReceiptsByProduct(productID, queryInt(c, "limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(receipts)
}

func (h *StockHandler) GetRecentReceipts(c *fiber.Ctx) error {
	receipts, err := h.ledger.RecentReceipts(queryInt(c, "days", 30), queryInt(c, "limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(receipts)
}

func (h *StockHandler) GetAvailableStock(c *fiber.Ctx) error {
	productID, err := parseUUID(c.Params("productId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}
	available, err := h.ledger.AvailableStock(productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"product_id": productID, "available_stock": available})
}

func (h *StockHandler) UpdateReceipt(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}

	var upd service.ReceiptUpdate
	if err := c.BodyParser(&upd); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	receipt, err := h.ledger.UpdateReceipt(id, &upd)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Receipt updated", "data": receipt})
}

func (h *StockHandler) DeleteReceipt(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid receipt ID"})
	}
	if err := h.ledger.DeleteReceipt(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Receipt deleted"})
}
