package handler

import (
	"errors"
	"strconv"

	"go-bevdistro/internal/apperr"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// statusFromErr maps the service error taxonomy onto HTTP status codes.
func statusFromErr(err error) int {
	switch {
	case apperr.IsInsufficientStock(err):
		return fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrConstraintViolation):
		return fiber.StatusConflict
	case errors.Is(err, apperr.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFromErr(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "Internal Server Error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key, strconv.Itoa(def)))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return ""
	}
	return userID.(string)
}
