package repository

import (
	"go-bevdistro/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MessFinancialSummary mirrors the v_mess_financial_summary view: what a mess
// has been sent versus what it has paid.
type MessFinancialSummary struct {
	MessID                uuid.UUID       `json:"mess_id"`
	MessName              string          `json:"mess_name"`
	TotalDistributedValue decimal.Decimal `json:"total_distributed_value"`
	TotalPaid             decimal.Decimal `json:"total_paid"`
	OutstandingBalance    decimal.Decimal `json:"outstanding_balance"`
}

type PaymentRepository interface {
	Create(payment *model.Payment) error
	FindAll(limit, offset int) ([]model.Payment, error)
	FindByID(id uuid.UUID) (*model.Payment, error)
	FindByMess(messID uuid.UUID, limit int) ([]model.Payment, error)
	Update(payment *model.Payment) error
	Delete(id uuid.UUID) error
	TotalPaidByMess(messID uuid.UUID) (decimal.Decimal, int64, error)
	FinancialSummary(messID uuid.UUID) (*MessFinancialSummary, error)
	AllFinancialSummaries() ([]MessFinancialSummary, error)
}

type paymentRepo struct {
	db *gorm.DB
}

func NewPaymentRepo(db *gorm.DB) PaymentRepository {
	return &paymentRepo{db}
}

func (r *paymentRepo) Create(payment *model.Payment) error {
	return r.db.Create(payment).Error
}

func (r *paymentRepo) FindAll(limit, offset int) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.Preload("Mess").
		Order("payment_date DESC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepo) FindByID(id uuid.UUID) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.Preload("Mess").First(&payment, "id = ?", id).Error
	return &payment, err
}

func (r *paymentRepo) FindByMess(messID uuid.UUID, limit int) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.Where("mess_id = ?", messID).
		Order("payment_date DESC").
		Limit(limit).
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepo) Update(payment *model.Payment) error {
	return r.db.Save(payment).Error
}

func (r *paymentRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Payment{}, "id = ?", id).Error
}

func (r *paymentRepo) TotalPaidByMess(messID uuid.UUID) (decimal.Decimal, int64, error) {
	var row struct {
		TotalPaid    decimal.Decimal
		PaymentCount int64
	}
	err := r.db.Model(&model.Payment{}).
		Where("mess_id = ?", messID).
		Select("COALESCE(SUM(amount_paid), 0) AS total_paid, COUNT(*) AS payment_count").
		Scan(&row).Error
	return row.TotalPaid, row.PaymentCount, err
}

func (r *paymentRepo) FinancialSummary(messID uuid.UUID) (*MessFinancialSummary, error) {
	var summary MessFinancialSummary
	err := r.db.Raw(`SELECT * FROM v_mess_financial_summary WHERE mess_id = ?`, messID).
		Scan(&summary).Error
	if err != nil {
		return nil, err
	}
	if summary.MessID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &summary, nil
}

func (r *paymentRepo) AllFinancialSummaries() ([]MessFinancialSummary, error) {
	var summaries []MessFinancialSummary
	err := r.db.Raw(`SELECT * FROM v_mess_financial_summary ORDER BY mess_name ASC`).
		Scan(&summaries).Error
	return summaries, err
}
