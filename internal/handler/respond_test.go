package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"go-bevdistro/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

func TestStatusFromErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"insufficient stock", &apperr.InsufficientStockError{Available: 14, Requested: 20, Unit: "crates"}, 400},
		{"not found", apperr.ErrNotFound, 404},
		{"invalid input", apperr.Invalid("bad"), 400},
		{"constraint violation", apperr.ErrConstraintViolation, 409},
		{"store unavailable", apperr.ErrStoreUnavailable, 503},
		{"unknown", errors.New("boom"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFromErr(tt.err); got != tt.want {
				t.Errorf("statusFromErr = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	app := fiber.New()
	app.Get("/insufficient", func(c *fiber.Ctx) error {
		return respondError(c, &apperr.InsufficientStockError{Available: 14, Requested: 20, Unit: "crates"})
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return respondError(c, errors.New("database exploded at 10.0.0.5"))
	})

	t.Run("client errors carry the message", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/insufficient", nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != 400 {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		var payload map[string]string
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("bad JSON: %v", err)
		}
		want := "Insufficient stock. Available: 14 crates, Requested: 20 crates"
		if payload["error"] != want {
			t.Errorf("error = %q, want %q", payload["error"], want)
		}
	})

	t.Run("internal errors hide details", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/internal", nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != 500 {
			t.Errorf("status = %d, want 500", resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		var payload map[string]string
		json.Unmarshal(body, &payload)
		if payload["error"] != "Internal Server Error" {
			t.Errorf("error = %q leaked internals", payload["error"])
		}
	})
}
