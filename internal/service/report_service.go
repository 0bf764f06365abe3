package service

import (
	"time"

	"go-bevdistro/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// DashboardMetrics is the single payload behind the dashboard page.
type DashboardMetrics struct {
	Stock          repository.StockSummary        `json:"stock"`
	Distributions  repository.DistributionSummary `json:"distributions"`
	RecentActivity repository.DistributionSummary `json:"recent_activity"`
	LowStockAlerts []repository.LowStockAlert     `json:"low_stock_alerts"`
	TopProducts    []repository.ProductRevenue    `json:"top_products"`
	MessSummaries  []repository.MessRevenue       `json:"mess_summaries"`
}

// ProductProfit is the average-cost profit analysis for one product: cost is
// distributed quantity times the average purchase price over all receipts.
type ProductProfit struct {
	repository.ProductCostRow
	TotalCost        decimal.Decimal `json:"total_cost"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	ProfitPercentage decimal.Decimal `json:"profit_percentage"`
}

type ProfitSummary struct {
	TotalRevenue           decimal.Decimal `json:"total_revenue"`
	TotalCost              decimal.Decimal `json:"total_cost"`
	GrossProfit            decimal.Decimal `json:"gross_profit"`
	ProfitMarginPercentage decimal.Decimal `json:"profit_margin_percentage"`
}

// ReportService derives read-only views over the ledger. Nothing here
// enforces an invariant or mutates state.
type ReportService interface {
	GetDashboardMetrics() (*DashboardMetrics, error)
	GetCurrentStock() ([]repository.CurrentStockRow, error)
	GetLowStockAlerts() ([]repository.LowStockAlert, error)
	GetRevenueByDateRange(start, end time.Time) ([]repository.DailyRevenue, error)
	GetRevenueByMess() ([]repository.MessRevenue, error)
	GetRevenueByProduct() ([]repository.ProductRevenue, error)
	GetProfitAnalysis() ([]ProductProfit, error)
	GetProfitSummary() (*ProfitSummary, error)
	GetActivityTimeline(days, limit int) ([]repository.ActivityItem, error)
	ExportWorkbook() (*excelize.File, error)
}

type reportService struct {
	reportRepo repository.ReportRepository
}

func NewReportService(reportRepo repository.ReportRepository) ReportService {
	return &reportService{reportRepo: reportRepo}
}

func (s *reportService) GetDashboardMetrics() (*DashboardMetrics, error) {
	stock, err := s.reportRepo.StockSummary()
	if err != nil {
		return nil, err
	}
	dists, err := s.reportRepo.DistributionSummary()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	recent, err := s.reportRepo.DistributionSummaryByDateRange(now.AddDate(0, 0, -30), now)
	if err != nil {
		return nil, err
	}
	alerts, err := s.reportRepo.LowStockAlerts()
	if err != nil {
		return nil, err
	}
	top, err := s.reportRepo.TopProductsByRevenue(5)
	if err != nil {
		return nil, err
	}
	messes, err := s.reportRepo.RevenueByMess()
	if err != nil {
		return nil, err
	}

	return &DashboardMetrics{
		Stock:          *stock,
		Distributions:  *dists,
		RecentActivity: *recent,
		LowStockAlerts: alerts,
		TopProducts:    top,
		MessSummaries:  messes,
	}, nil
}

func (s *reportService) GetCurrentStock() ([]repository.CurrentStockRow, error) {
	return s.reportRepo.CurrentStock()
}

func (s *reportService) GetLowStockAlerts() ([]repository.LowStockAlert, error) {
	return s.reportRepo.LowStockAlerts()
}

func (s *reportService) GetRevenueByDateRange(start, end time.Time) ([]repository.DailyRevenue, error) {
	return s.reportRepo.RevenueByDateRange(start, end)
}

func (s *reportService) GetRevenueByMess() ([]repository.MessRevenue, error) {
	return s.reportRepo.RevenueByMess()
}

func (s *reportService) GetRevenueByProduct() ([]repository.ProductRevenue, error) {
	return s.reportRepo.RevenueByProduct()
}

func (s *reportService) GetProfitAnalysis() ([]ProductProfit, error) {
	rows, err := s.reportRepo.ProductCosts()
	if err != nil {
		return nil, err
	}
	return profitFromCosts(rows), nil
}

func (s *reportService) GetProfitSummary() (*ProfitSummary, error) {
	rows, err := s.reportRepo.ProductCosts()
	if err != nil {
		return nil, err
	}
	summary := summarizeProfit(profitFromCosts(rows))
	return &summary, nil
}

// profitFromCosts turns raw per-product aggregates into profit figures.
// Average-cost, not FIFO/LIFO: the cost basis is the plain average purchase
// price across every receipt for the product.
func profitFromCosts(rows []repository.ProductCostRow) []ProductProfit {
	hundred := decimal.NewFromInt(100)
	profits := make([]ProductProfit, 0, len(rows))
	for _, row := range rows {
		cost := row.AvgPurchasePrice.Mul(decimal.NewFromInt(row.TotalUnitsDistributed))
		profit := row.TotalRevenue.Sub(cost)
		pct := decimal.Zero
		if row.TotalRevenue.IsPositive() {
			pct = profit.Div(row.TotalRevenue).Mul(hundred).Round(2)
		}
		profits = append(profits, ProductProfit{
			ProductCostRow:   row,
			TotalCost:        cost,
			TotalProfit:      profit,
			ProfitPercentage: pct,
		})
	}
	return profits
}

func summarizeProfit(profits []ProductProfit) ProfitSummary {
	var summary ProfitSummary
	for _, p := range profits {
		summary.TotalRevenue = summary.TotalRevenue.Add(p.TotalRevenue)
		summary.TotalCost = summary.TotalCost.Add(p.TotalCost)
	}
	summary.GrossProfit = summary.TotalRevenue.Sub(summary.TotalCost)
	if summary.TotalRevenue.IsPositive() {
		summary.ProfitMarginPercentage = summary.GrossProfit.
			Div(summary.TotalRevenue).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return summary
}

func (s *reportService) GetActivityTimeline(days, limit int) ([]repository.ActivityItem, error) {
	return s.reportRepo.ActivityTimeline(days, limit)
}

// ExportWorkbook builds an .xlsx with a stock sheet and a revenue sheet.
func (s *reportService) ExportWorkbook() (*excelize.File, error) {
	stock, err := s.reportRepo.CurrentStock()
	if err != nil {
		return nil, err
	}
	revenue, err := s.reportRepo.RevenueByProduct()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()

	const stockSheet = "Current Stock"
	if err := f.SetSheetName("Sheet1", stockSheet); err != nil {
		return nil, err
	}
	stockHeaders := []string{"Product", "Unit", "Total Added", "Total Distributed", "Current Stock"}
	for col, h := range stockHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(stockSheet, cell, h); err != nil {
			return nil, err
		}
	}
	for i, row := range stock {
		values := []interface{}{row.ProductName, row.UnitType, row.TotalAdded, row.TotalDistributed, row.CurrentStock}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(stockSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	const revenueSheet = "Revenue By Product"
	if _, err := f.NewSheet(revenueSheet); err != nil {
		return nil, err
	}
	revenueHeaders := []string{"Product", "Distributions", "Units Distributed", "Total Revenue"}
	for col, h := range revenueHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(revenueSheet, cell, h); err != nil {
			return nil, err
		}
	}
	for i, row := range revenue {
		values := []interface{}{row.ProductName, row.DistributionCount, row.TotalUnitsDistributed, row.TotalRevenue.String()}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(revenueSheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}
