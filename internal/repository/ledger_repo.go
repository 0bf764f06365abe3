package repository

import (
	"time"

	"go-bevdistro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerTx is the narrow slice of ledger operations available while holding a
// product's row lock. Everything inside runs in one transaction; returning an
// error rolls the whole thing back.
type LedgerTx interface {
	TotalReceived(productID uuid.UUID) (int64, error)
	TotalDistributed(productID uuid.UUID) (int64, error)
	GetReceipt(id uuid.UUID) (*model.StockReceipt, error)
	GetDistribution(id uuid.UUID) (*model.Distribution, error)
	CreateReceipt(receipt *model.StockReceipt) error
	CreateDistribution(dist *model.Distribution) error
	SaveReceipt(receipt *model.StockReceipt) error
	SaveDistribution(dist *model.Distribution) error
	DeleteReceipt(id uuid.UUID) error
	DeleteDistribution(id uuid.UUID) error
}

type LedgerRepository interface {
	// WithProductLock locks the product row (SELECT ... FOR UPDATE) and runs fn
	// inside the transaction. Concurrent ledger writes for the same product
	// serialize on this lock; writes for different products never block each
	// other.
	WithProductLock(productID uuid.UUID, fn func(tx LedgerTx, product *model.Product) error) error

	AvailableStock(productID uuid.UUID) (int64, error)

	FindReceiptByID(id uuid.UUID) (*model.StockReceipt, error)
	FindAllReceipts(limit, offset int) ([]model.StockReceipt, error)
	FindReceiptsByProduct(productID uuid.UUID, limit int) ([]model.StockReceipt, error)
	RecentReceipts(days, limit int) ([]model.StockReceipt, error)

	FindDistributionByID(id uuid.UUID) (*model.Distribution, error)
	FindAllDistributions(limit, offset int) ([]model.Distribution, error)
	FindDistributionsByMess(messID uuid.UUID, limit int) ([]model.Distribution, error)
	FindDistributionsByProduct(productID uuid.UUID, limit int) ([]model.Distribution, error)
	RecentDistributions(days, limit int) ([]model.Distribution, error)
}

type ledgerRepo struct {
	db *gorm.DB
}

func NewLedgerRepo(db *gorm.DB) LedgerRepository {
	return &ledgerRepo{db}
}

func (r *ledgerRepo) WithProductLock(productID uuid.UUID, fn func(tx LedgerTx, product *model.Product) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var product model.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", productID).Error; err != nil {
			return err
		}
		return fn(&ledgerTx{tx}, &product)
	})
}

// AvailableStock is the pure derivation: sum of receipts minus sum of
// distributions. Reads outside WithProductLock see read-committed state.
func (r *ledgerRepo) AvailableStock(productID uuid.UUID) (int64, error) {
	t := &ledgerTx{r.db}
	received, err := t.TotalReceived(productID)
	if err != nil {
		return 0, err
	}
	distributed, err := t.TotalDistributed(productID)
	if err != nil {
		return 0, err
	}
	return received - distributed, nil
}

func (r *ledgerRepo) FindReceiptByID(id uuid.UUID) (*model.StockReceipt, error) {
	var receipt model.StockReceipt
	err := r.db.Preload("Product").First(&receipt, "id = ?", id).Error
	return &receipt, err
}

func (r *ledgerRepo) FindAllReceipts(limit, offset int) ([]model.StockReceipt, error) {
	var receipts []model.StockReceipt
	err := r.db.Preload("Product").
		Order("date_added DESC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&receipts).Error
	return receipts, err
}

func (r *ledgerRepo) FindReceiptsByProduct(productID uuid.UUID, limit int) ([]model.StockReceipt, error) {
	var receipts []model.StockReceipt
	err := r.db.Preload("Product").
		Where("product_id = ?", productID).
		Order("date_added DESC").
		Limit(limit).
		Find(&receipts).Error
	return receipts, err
}

func (r *ledgerRepo) RecentReceipts(days, limit int) ([]model.StockReceipt, error) {
	var receipts []model.StockReceipt
	cutoff := time.Now().AddDate(0, 0, -days)
	err := r.db.Preload("Product").
		Where("date_added >= ?", cutoff).
		Order("date_added DESC, created_at DESC").
		Limit(limit).
		Find(&receipts).Error
	return receipts, err
}

func (r *ledgerRepo) FindDistributionByID(id uuid.UUID) (*model.Distribution, error) {
	var dist model.Distribution
	err := r.db.Preload("Product").Preload("Mess").Preload("Attendant").
		First(&dist, "id = ?", id).Error
	return &dist, err
}

func (r *ledgerRepo) FindAllDistributions(limit, offset int) ([]model.Distribution, error) {
	var dists []model.Distribution
	err := r.db.Preload("Product").Preload("Mess").
		Order("distribution_date DESC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&dists).Error
	return dists, err
}

func (r *ledgerRepo) FindDistributionsByMess(messID uuid.UUID, limit int) ([]model.Distribution, error) {
	var dists []model.Distribution
	err := r.db.Preload("Product").
		Where("mess_id = ?", messID).
		Order("distribution_date DESC").
		Limit(limit).
		Find(&dists).Error
	return dists, err
}

func (r *ledgerRepo) FindDistributionsByProduct(productID uuid.UUID, limit int) ([]model.Distribution, error) {
	var dists []model.Distribution
	err := r.db.Preload("Mess").
		Where("product_id = ?", productID).
		Order("distribution_date DESC").
		Limit(limit).
		Find(&dists).Error
	return dists, err
}

func (r *ledgerRepo) RecentDistributions(days, limit int) ([]model.Distribution, error) {
	var dists []model.Distribution
	cutoff := time.Now().AddDate(0, 0, -days)
	err := r.db.Preload("Product").Preload("Mess").
		Where("distribution_date >= ?", cutoff).
		Order("distribution_date DESC, created_at DESC").
		Limit(limit).
		Find(&dists).Error
	return dists, err
}

type ledgerTx struct {
	tx *gorm.DB
}

func (t *ledgerTx) TotalReceived(productID uuid.UUID) (int64, error) {
	var total int64
	err := t.tx.Model(&model.StockReceipt{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (t *ledgerTx) TotalDistributed(productID uuid.UUID) (int64, error) {
	var total int64
	err := t.tx.Model(&model.Distribution{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

func (t *ledgerTx) GetReceipt(id uuid.UUID) (*model.StockReceipt, error) {
	var receipt model.StockReceipt
	err := t.tx.First(&receipt, "id = ?", id).Error
	return &receipt, err
}

func (t *ledgerTx) GetDistribution(id uuid.UUID) (*model.Distribution, error) {
	var dist model.Distribution
	err := t.tx.First(&dist, "id = ?", id).Error
	return &dist, err
}

func (t *ledgerTx) CreateReceipt(receipt *model.StockReceipt) error {
	return t.tx.Create(receipt).Error
}

func (t *ledgerTx) CreateDistribution(dist *model.Distribution) error {
	return t.tx.Create(dist).Error
}

func (t *ledgerTx) SaveReceipt(receipt *model.StockReceipt) error {
	return t.tx.Save(receipt).Error
}

func (t *ledgerTx) SaveDistribution(dist *model.Distribution) error {
	return t.tx.Save(dist).Error
}

func (t *ledgerTx) DeleteReceipt(id uuid.UUID) error {
	return t.tx.Delete(&model.StockReceipt{}, "id = ?", id).Error
}

func (t *ledgerTx) DeleteDistribution(id uuid.UUID) error {
	return t.tx.Delete(&model.Distribution{}, "id = ?", id).Error
}
