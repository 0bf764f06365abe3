package repository

import (
	"time"

	"go-bevdistro/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Low stock thresholds: below Warning a product appears in the alerts, below
// Critical it is flagged critical.
const (
	LowStockWarning  = 10
	LowStockCritical = 5
)

// CurrentStockRow mirrors the v_current_stock view.
type CurrentStockRow struct {
	ProductID        uuid.UUID `json:"product_id"`
	ProductName      string    `json:"product_name"`
	UnitType         string    `json:"unit_type"`
	TotalAdded       int64     `json:"total_added"`
	TotalDistributed int64     `json:"total_distributed"`
	CurrentStock     int64     `json:"current_stock"`
}

type StockSummary struct {
	TotalProducts    int64 `json:"total_products"`
	TotalStock       int64 `json:"total_stock"`
	TotalPurchased   int64 `json:"total_purchased"`
	TotalDistributed int64 `json:"total_distributed"`
}

type DistributionSummary struct {
	TotalDistributions int64           `json:"total_distributions"`
	TotalUnits         int64           `json:"total_units"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	MessesServed       int64           `json:"messes_served"`
}

type LowStockAlert struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	UnitType     string    `json:"unit_type"`
	CurrentStock int64     `json:"current_stock"`
	Severity     string    `json:"severity"` // warning or critical
}

type ProductRevenue struct {
	ProductID             uuid.UUID       `json:"product_id"`
	ProductName           string          `json:"product_name"`
	UnitType              string          `json:"unit_type"`
	DistributionCount     int64           `json:"distribution_count"`
	TotalUnitsDistributed int64           `json:"total_units_distributed"`
	TotalRevenue          decimal.Decimal `json:"total_revenue"`
}

type MessRevenue struct {
	MessID               uuid.UUID       `json:"mess_id"`
	MessName             string          `json:"mess_name"`
	DistributionCount    int64           `json:"distribution_count"`
	TotalUnitsReceived   int64           `json:"total_units_received"`
	TotalValue           decimal.Decimal `json:"total_value"`
	LastDistributionDate *time.Time      `json:"last_distribution_date,omitempty"`
}

type DailyRevenue struct {
	Date              string          `json:"date"`
	DistributionCount int64           `json:"distribution_count"`
	TotalUnits        int64           `json:"total_units"`
	DailyRevenue      decimal.Decimal `json:"daily_revenue"`
}

// ProductCostRow carries the per-product aggregates the profit analysis is
// derived from. Costing is average-cost: AVG over all receipts, not FIFO/LIFO.
type ProductCostRow struct {
	ProductID             uuid.UUID       `json:"product_id"`
	ProductName           string          `json:"product_name"`
	UnitType              string          `json:"unit_type"`
	PurchaseCount         int64           `json:"purchase_count"`
	AvgPurchasePrice      decimal.Decimal `json:"avg_purchase_price"`
	AvgSellingPrice       decimal.Decimal `json:"avg_selling_price"`
	TotalUnitsDistributed int64           `json:"total_units_distributed"`
	TotalRevenue          decimal.Decimal `json:"total_revenue"`
}

type ActivityItem struct {
	ID               uuid.UUID       `json:"id"`
	DistributionDate time.Time       `json:"distribution_date"`
	Quantity         int64           `json:"quantity"`
	TotalValue       decimal.Decimal `json:"total_value"`
	ProductName      string          `json:"product_name"`
	MessName         string          `json:"mess_name"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ReportRepository is read-only aggregation over the ledger tables. Results
// are as fresh as the tables at query time; nothing here mutates state.
type ReportRepository interface {
	CurrentStock() ([]CurrentStockRow, error)
	StockSummary() (*StockSummary, error)
	DistributionSummary() (*DistributionSummary, error)
	DistributionSummaryByDateRange(start, end time.Time) (*DistributionSummary, error)
	LowStockAlerts() ([]LowStockAlert, error)
	TopProductsByRevenue(limit int) ([]ProductRevenue, error)
	RevenueByProduct() ([]ProductRevenue, error)
	RevenueByMess() ([]MessRevenue, error)
	RevenueByDateRange(start, end time.Time) ([]DailyRevenue, error)
	ProductCosts() ([]ProductCostRow, error)
	ActivityTimeline(days, limit int) ([]ActivityItem, error)
}

type reportRepo struct {
	db *gorm.DB
}

func NewReportRepo(db *gorm.DB) ReportRepository {
	return &reportRepo{db}
}

func (r *reportRepo) CurrentStock() ([]CurrentStockRow, error) {
	var rows []CurrentStockRow
	err := r.db.Raw(`SELECT * FROM v_current_stock ORDER BY product_name ASC`).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) StockSummary() (*StockSummary, error) {
	var summary StockSummary
	err := r.db.Raw(`
		SELECT
			COUNT(*) AS total_products,
			COALESCE(SUM(current_stock), 0) AS total_stock,
			COALESCE(SUM(total_added), 0) AS total_purchased,
			COALESCE(SUM(total_distributed), 0) AS total_distributed
		FROM v_current_stock`).Scan(&summary).Error
	return &summary, err
}

func (r *reportRepo) DistributionSummary() (*DistributionSummary, error) {
	var summary DistributionSummary
	err := r.db.Model(&model.Distribution{}).
		Select(`COUNT(*) AS total_distributions,
			COALESCE(SUM(quantity), 0) AS total_units,
			COALESCE(SUM(total_value), 0) AS total_revenue,
			COUNT(DISTINCT mess_id) AS messes_served`).
		Scan(&summary).Error
	return &summary, err
}

func (r *reportRepo) DistributionSummaryByDateRange(start, end time.Time) (*DistributionSummary, error) {
	var summary DistributionSummary
	err := r.db.Model(&model.Distribution{}).
		Where("distribution_date BETWEEN ? AND ?", start, end).
		Select(`COUNT(*) AS total_distributions,
			COALESCE(SUM(quantity), 0) AS total_units,
			COALESCE(SUM(total_value), 0) AS total_revenue,
			COUNT(DISTINCT mess_id) AS messes_served`).
		Scan(&summary).Error
	return &summary, err
}

func (r *reportRepo) LowStockAlerts() ([]LowStockAlert, error) {
	var alerts []LowStockAlert
	err := r.db.Raw(`
		SELECT
			product_id,
			product_name,
			unit_type,
			current_stock,
			CASE WHEN current_stock < ? THEN 'critical' ELSE 'warning' END AS severity
		FROM v_current_stock
		WHERE current_stock < ?
		ORDER BY current_stock ASC`, LowStockCritical, LowStockWarning).
		Scan(&alerts).Error
	return alerts, err
}

func (r *reportRepo) TopProductsByRevenue(limit int) ([]ProductRevenue, error) {
	var rows []ProductRevenue
	err := r.db.Raw(`
		SELECT * FROM v_product_distribution_summary
		ORDER BY total_revenue DESC
		LIMIT ?`, limit).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) RevenueByProduct() ([]ProductRevenue, error) {
	var rows []ProductRevenue
	err := r.db.Raw(`SELECT * FROM v_product_distribution_summary ORDER BY total_revenue DESC`).
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) RevenueByMess() ([]MessRevenue, error) {
	var rows []MessRevenue
	err := r.db.Raw(`SELECT * FROM v_mess_distribution_summary ORDER BY total_value DESC`).
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) RevenueByDateRange(start, end time.Time) ([]DailyRevenue, error) {
	var rows []DailyRevenue
	err := r.db.Model(&model.Distribution{}).
		Select(`TO_CHAR(distribution_date, 'YYYY-MM-DD') AS date,
			COUNT(*) AS distribution_count,
			COALESCE(SUM(quantity), 0) AS total_units,
			COALESCE(SUM(total_value), 0) AS daily_revenue`).
		Where("distribution_date BETWEEN ? AND ?", start, end).
		Group("distribution_date").
		Order("distribution_date DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) ProductCosts() ([]ProductCostRow, error) {
	var rows []ProductCostRow
	err := r.db.Raw(`
		SELECT
			p.id AS product_id,
			p.name AS product_name,
			p.unit_type,
			COALESCE((SELECT COUNT(*) FROM inventory i
				WHERE i.product_id = p.id AND i.deleted_at IS NULL), 0) AS purchase_count,
			COALESCE((SELECT AVG(i.purchase_price_per_unit) FROM inventory i
				WHERE i.product_id = p.id AND i.deleted_at IS NULL
				AND i.purchase_price_per_unit IS NOT NULL), 0) AS avg_purchase_price,
			COALESCE((SELECT AVG(d.price_per_unit) FROM distributions d
				WHERE d.product_id = p.id AND d.deleted_at IS NULL), 0) AS avg_selling_price,
			COALESCE((SELECT SUM(d.quantity) FROM distributions d
				WHERE d.product_id = p.id AND d.deleted_at IS NULL), 0) AS total_units_distributed,
			COALESCE((SELECT SUM(d.total_value) FROM distributions d
				WHERE d.product_id = p.id AND d.deleted_at IS NULL), 0) AS total_revenue
		FROM products p
		WHERE p.deleted_at IS NULL AND p.is_active = true
		ORDER BY p.name ASC`).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) ActivityTimeline(days, limit int) ([]ActivityItem, error) {
	var items []ActivityItem
	cutoff := time.Now().AddDate(0, 0, -days)
	err := r.db.Model(&model.Distribution{}).
		Select(`distributions.id,
			distributions.distribution_date,
			distributions.quantity,
			distributions.total_value,
			products.name AS product_name,
			messes.name AS mess_name,
			distributions.created_at`).
		Joins("JOIN products ON products.id = distributions.product_id").
		Joins("JOIN messes ON messes.id = distributions.mess_id").
		Where("distributions.distribution_date >= ?", cutoff).
		Order("distributions.distribution_date DESC, distributions.created_at DESC").
		Limit(limit).
		Scan(&items).Error
	return items, err
}
