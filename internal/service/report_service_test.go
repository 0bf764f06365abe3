package service

import (
	"testing"

	"go-bevdistro/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestProfitFromCosts(t *testing.T) {
	d := func(s string) decimal.Decimal {
		v, err := decimal.NewFromString(s)
		if err != nil {
			t.Fatalf("bad decimal %q: %v", s, err)
		}
		return v
	}

	t.Run("average cost basis", func(t *testing.T) {
		// Bought at avg 500, sold 10 units for 8000: profit 3000, margin 37.5%.
		rows := []repository.ProductCostRow{{
			ProductID:             uuid.New(),
			ProductName:           "Cola",
			AvgPurchasePrice:      d("500"),
			TotalUnitsDistributed: 10,
			TotalRevenue:          d("8000"),
		}}
		profits := profitFromCosts(rows)
		if len(profits) != 1 {
			t.Fatalf("got %d rows, want 1", len(profits))
		}
		p := profits[0]
		if !p.TotalCost.Equal(d("5000")) {
			t.Errorf("cost = %s, want 5000", p.TotalCost)
		}
		if !p.TotalProfit.Equal(d("3000")) {
			t.Errorf("profit = %s, want 3000", p.TotalProfit)
		}
		if !p.ProfitPercentage.Equal(d("37.5")) {
			t.Errorf("margin = %s, want 37.5", p.ProfitPercentage)
		}
	})

	t.Run("no revenue means zero margin, not a division error", func(t *testing.T) {
		rows := []repository.ProductCostRow{{
			ProductName:      "Dead Stock",
			AvgPurchasePrice: d("100"),
		}}
		p := profitFromCosts(rows)[0]
		if !p.ProfitPercentage.IsZero() {
			t.Errorf("margin = %s, want 0", p.ProfitPercentage)
		}
	})

	t.Run("fractional averages stay exact", func(t *testing.T) {
		rows := []repository.ProductCostRow{{
			ProductName:           "Fanta",
			AvgPurchasePrice:      d("33.33"),
			TotalUnitsDistributed: 3,
			TotalRevenue:          d("150"),
		}}
		p := profitFromCosts(rows)[0]
		if !p.TotalCost.Equal(d("99.99")) {
			t.Errorf("cost = %s, want 99.99", p.TotalCost)
		}
		if !p.TotalProfit.Equal(d("50.01")) {
			t.Errorf("profit = %s, want 50.01", p.TotalProfit)
		}
	})
}

func TestSummarizeProfit(t *testing.T) {
	profits := []ProductProfit{
		{
			ProductCostRow: repository.ProductCostRow{TotalRevenue: decimal.NewFromInt(8000)},
			TotalCost:      decimal.NewFromInt(5000),
		},
		{
			ProductCostRow: repository.ProductCostRow{TotalRevenue: decimal.NewFromInt(2000)},
			TotalCost:      decimal.NewFromInt(2000),
		},
	}
	summary := summarizeProfit(profits)
	if !summary.TotalRevenue.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("revenue = %s, want 10000", summary.TotalRevenue)
	}
	if !summary.GrossProfit.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("gross profit = %s, want 3000", summary.GrossProfit)
	}
	if !summary.ProfitMarginPercentage.Equal(decimal.NewFromInt(30)) {
		t.Errorf("margin = %s, want 30", summary.ProfitMarginPercentage)
	}
}

func TestGetDashboardMetrics(t *testing.T) {
	repo := &fakeReportRepo{
		summary:   repository.StockSummary{TotalProducts: 3, TotalStock: 120},
		distTotal: repository.DistributionSummary{TotalDistributions: 12, TotalRevenue: decimal.NewFromInt(96000)},
		alerts: []repository.LowStockAlert{
			{ProductName: "Cola", CurrentStock: 4, Severity: "critical"},
		},
		revenue: []repository.ProductRevenue{
			{ProductName: "Cola"}, {ProductName: "Fanta"}, {ProductName: "Sprite"},
			{ProductName: "Krest"}, {ProductName: "Soda Water"}, {ProductName: "Stoney"},
		},
	}
	svc := NewReportService(repo)

	metrics, err := svc.GetDashboardMetrics()
	if err != nil {
		t.Fatalf("GetDashboardMetrics: %v", err)
	}
	if metrics.Stock.TotalProducts != 3 {
		t.Errorf("total products = %d, want 3", metrics.Stock.TotalProducts)
	}
	if len(metrics.TopProducts) != 5 {
		t.Errorf("top products = %d, want 5", len(metrics.TopProducts))
	}
	if len(metrics.LowStockAlerts) != 1 || metrics.LowStockAlerts[0].Severity != "critical" {
		t.Errorf("alerts = %+v", metrics.LowStockAlerts)
	}
}

func TestExportWorkbook(t *testing.T) {
	repo := &fakeReportRepo{
		stock: []repository.CurrentStockRow{
			{ProductName: "Cola", UnitType: "crate", TotalAdded: 24, TotalDistributed: 10, CurrentStock: 14},
		},
		revenue: []repository.ProductRevenue{
			{ProductName: "Cola", DistributionCount: 1, TotalUnitsDistributed: 10, TotalRevenue: decimal.NewFromInt(8000)},
		},
	}
	svc := NewReportService(repo)

	file, err := svc.ExportWorkbook()
	if err != nil {
		t.Fatalf("ExportWorkbook: %v", err)
	}
	defer file.Close()

	name, err := file.GetCellValue("Current Stock", "A2")
	if err != nil {
		t.Fatalf("GetCellValue: %v", err)
	}
	if name != "Cola" {
		t.Errorf("stock sheet A2 = %q, want Cola", name)
	}
	stock, _ := file.GetCellValue("Current Stock", "E2")
	if stock != "14" {
		t.Errorf("stock sheet E2 = %q, want 14", stock)
	}
	revenue, _ := file.GetCellValue("Revenue By Product", "D2")
	if revenue != "8000" {
		t.Errorf("revenue sheet D2 = %q, want 8000", revenue)
	}
}
