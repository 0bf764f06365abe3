package handler

import (
	"fmt"
	"time"

	"go-bevdistro/internal/apperr"
	"go-bevdistro/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	reports service.ReportService
}

func NewDashboardHandler(reports service.ReportService) *DashboardHandler {
	return &DashboardHandler{reports: reports}
}

func (h *DashboardHandler) GetMetrics(c *fiber.Ctx) error {
	metrics, err := h.reports.GetDashboardMetrics()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(metrics)
}

func (h *DashboardHandler) GetCurrentStock(c *fiber.Ctx) error {
	stock, err := h.reports.GetCurrentStock()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stock)
}

func (h *DashboardHandler) GetLowStockAlerts(c *fiber.Ctx) error {
	alerts, err := h.reports.GetLowStockAlerts()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(alerts)
}

// GetRevenueByDateRange expects start and end query params as YYYY-MM-DD;
// defaults to the last 30 days.
func (h *DashboardHandler) GetRevenueByDateRange(c *fiber.Ctx) error {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if v := c.Query("start"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return respondError(c, apperr.Invalid("start must be YYYY-MM-DD"))
		}
		start = parsed
	}
	if v := c.Query("end"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return respondError(c, apperr.Invalid("end must be YYYY-MM-DD"))
		}
		end = parsed
	}
	if end.Before(start) {
		return respondError(c, apperr.Invalid("end must not be before start"))
	}

	revenue, err := h.reports.GetRevenueByDateRange(start, end)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(revenue)
}

func (h *DashboardHandler) GetRevenueByMess(c *fiber.Ctx) error {
	revenue, err := h.reports.GetRevenueByMess()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(revenue)
}

func (h *DashboardHandler) GetRevenueByProduct(c *fiber.Ctx) error {
	revenue, err := h.reports.GetRevenueByProduct()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(revenue)
}

func (h *DashboardHandler) GetProfitAnalysis(c *fiber.Ctx) error {
	profits, err := h.reports.GetProfitAnalysis()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profits)
}

func (h *DashboardHandler) GetProfitSummary(c *fiber.Ctx) error {
	summary, err := h.reports.GetProfitSummary()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

func (h *DashboardHandler) GetActivityTimeline(c *fiber.Ctx) error {
	items, err := h.reports.GetActivityTimeline(queryInt(c, "days", 7), queryInt(c, "limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

// ExportReport streams the stock and revenue report as an .xlsx download.
func (h *DashboardHandler) ExportReport(c *fiber.Ctx) error {
	file, err := h.reports.ExportWorkbook()
	if err != nil {
		return respondError(c, err)
	}
	defer file.Close()

	filename := fmt.Sprintf("distribution-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return file.Write(c.Response().BodyWriter())
}
