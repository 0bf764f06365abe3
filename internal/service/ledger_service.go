package service

import (
	"fmt"
	"time"

	"go-bevdistro/internal/apperr"
	"go-bevdistro/internal/model"
	"go-bevdistro/internal/repository"
	"go-bevdistro/pkg/metrics"
	"go-bevdistro/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventBroadcaster pushes ledger events to connected clients. The websocket
// hub implements it; tests plug in a no-op.
type EventBroadcaster interface {
	BroadcastEvent(eventType, action string, payload map[string]interface{})
}

// ReceiptUpdate is a partial correction of a stock receipt. Nil fields keep
// their current value. The product of a receipt cannot change.
type ReceiptUpdate struct {
	Quantity             *int64           `json:"quantity"`
	PurchasePricePerUnit *decimal.Decimal `json:"purchase_price_per_unit"`
	SupplierName         *string          `json:"supplier_name"`
	SupplierContact      *string          `json:"supplier_contact"`
	DateAdded            *time.Time       `json:"date_added"`
	Notes                *string          `json:"notes"`
}

// DistributionUpdate is a partial correction of a distribution. Nil fields
// keep their current value. The product of a distribution cannot change.
type DistributionUpdate struct {
	MessID           *uuid.UUID       `json:"mess_id"`
	Quantity         *int64           `json:"quantity"`
	PricePerUnit     *decimal.Decimal `json:"price_per_unit"`
	DistributionDate *time.Time       `json:"distribution_date"`
	Notes            *string          `json:"notes"`
}

// LedgerService records stock receipts and distributions while preserving the
// one invariant that matters here: a product's available stock never goes
// negative, even under concurrent writers.
type LedgerService interface {
	ReceiveStock(req *model.StockReceipt) error
	RecordDistribution(req *model.Distribution) error
	AvailableStock(productID uuid.UUID) (int64, error)

	UpdateReceipt(id uuid.UUID, upd *ReceiptUpdate) (*model.StockReceipt, error)
	DeleteReceipt(id uuid.UUID) error
	UpdateDistribution(id uuid.UUID, upd *DistributionUpdate) (*model.Distribution, error)
	DeleteDistribution(id uuid.UUID) error

	GetReceipt(id uuid.UUID) (*model.StockReceipt, error)
	GetReceipts(limit, offset int) ([]model.StockReceipt, error)
	GetReceiptsByProduct(productID uuid.UUID, limit int) ([]model.StockReceipt, error)
	RecentReceipts(days, limit int) ([]model.StockReceipt, error)

	GetDistribution(id uuid.UUID) (*model.Distribution, error)
	GetDistributions(limit, offset int) ([]model.Distribution, error)
	GetDistributionsByMess(messID uuid.UUID, limit int) ([]model.Distribution, error)
	GetDistributionsByProduct(productID uuid.UUID, limit int) ([]model.Distribution, error)
	RecentDistributions(days, limit int) ([]model.Distribution, error)
}

type ledgerService struct {
	ledgerRepo repository.LedgerRepository
	messRepo   repository.MessRepository
	events     EventBroadcaster
}

func NewLedgerService(ledgerRepo repository.LedgerRepository, messRepo repository.MessRepository, events EventBroadcaster) LedgerService {
	return &ledgerService{
		ledgerRepo: ledgerRepo,
		messRepo:   messRepo,
		events:     events,
	}
}

func firstValidationError(data interface{}) error {
	if errs := validator.ValidateStruct(data); len(errs) > 0 {
		return apperr.Invalid(errs[0].Error())
	}
	return nil
}

// ReceiveStock records a stock purchase. Receipts only increase availability,
// so no stock check is needed; the product lock still serializes the insert
// with concurrent ledger writes and verifies the product exists and is active.
func (s *ledgerService) ReceiveStock(req *model.StockReceipt) error {
	if err := firstValidationError(req); err != nil {
		return err
	}
	if req.PurchasePricePerUnit.Valid && req.PurchasePricePerUnit.Decimal.IsNegative() {
		return apperr.Invalid("purchase_price_per_unit must not be negative")
	}

	err := s.ledgerRepo.WithProductLock(req.ProductID, func(tx repository.LedgerTx, product *model.Product) error {
		if !product.IsActive {
			return fmt.Errorf("%w: product is inactive", apperr.ErrNotFound)
		}
		if req.UnitType == "" {
			req.UnitType = product.UnitType
		}
		if req.DateAdded.IsZero() {
			req.DateAdded = time.Now()
		}
		return tx.CreateReceipt(req)
	})
	if err != nil {
		return apperr.FromStore(err)
	}

	metrics.StockReceiptsTotal.Inc()
	s.events.BroadcastEvent("ledger_update", "stock_received", map[string]interface{}{
		"receipt_id": req.ID,
		"product_id": req.ProductID,
		"quantity":   req.Quantity,
	})
	return nil
}

// RecordDistribution performs the check-then-insert atomically under the
// product's row lock: two concurrent requests that would together overdraw
// stock cannot both commit.
func (s *ledgerService) RecordDistribution(req *model.Distribution) error {
	if err := firstValidationError(req); err != nil {
		return err
	}
	if !req.PricePerUnit.IsPositive() {
		return apperr.Invalid("price_per_unit must be greater than zero")
	}

	mess, err := s.messRepo.FindByID(req.MessID)
	if err != nil {
		return apperr.FromStore(err)
	}
	if !mess.IsActive {
		return fmt.Errorf("%w: mess is inactive", apperr.ErrNotFound)
	}

	err = s.ledgerRepo.WithProductLock(req.ProductID, func(tx repository.LedgerTx, product *model.Product) error {
		if !product.IsActive {
			return fmt.Errorf("%w: product is inactive", apperr.ErrNotFound)
		}

		available, err := availableWithin(tx, product.ID)
		if err != nil {
			return err
		}
		if available < req.Quantity {
			return &apperr.InsufficientStockError{
				Available: available,
				Requested: req.Quantity,
				Unit:      model.UnitLabel(product.UnitType),
			}
		}

		if req.UnitType == "" {
			req.UnitType = product.UnitType
		}
		if req.DistributionDate.IsZero() {
			req.DistributionDate = time.Now()
		}
		req.TotalValue = req.ComputeTotalValue()
		return tx.CreateDistribution(req)
	})
	if err != nil {
		if apperr.IsInsufficientStock(err) {
			metrics.DistributionsRejectedTotal.WithLabelValues("insufficient_stock").Inc()
			return err
		}
		return apperr.FromStore(err)
	}

	metrics.DistributionsTotal.Inc()
	s.events.BroadcastEvent("ledger_update", "distribution_recorded", map[string]interface{}{
		"distribution_id": req.ID,
		"product_id":      req.ProductID,
		"mess_id":         req.MessID,
		"quantity":        req.Quantity,
		"total_value":     req.TotalValue,
	})
	return nil
}

func (s *ledgerService) AvailableStock(productID uuid.UUID) (int64, error) {
	available, err := s.ledgerRepo.AvailableStock(productID)
	if err != nil {
		return 0, apperr.FromStore(err)
	}
	return available, nil
}

// UpdateReceipt applies an administrative correction. Unlike the system this
// replaces, shrinking a receipt re-validates the invariant: the correction is
// rejected if it would leave the product with negative available stock.
func (s *ledgerService) UpdateReceipt(id uuid.UUID, upd *ReceiptUpdate) (*model.StockReceipt, error) {
	receipt, err := s.ledgerRepo.FindReceiptByID(id)
	if err != nil {
		return nil, apperr.FromStore(err)
	}

	var updated *model.StockReceipt
	err = s.ledgerRepo.WithProductLock(receipt.ProductID, func(tx repository.LedgerTx, product *model.Product) error {
		current, err := tx.GetReceipt(id)
		if err != nil {
			return err
		}

		newQty := current.Quantity
		if upd.Quantity != nil {
			newQty = *upd.Quantity
			if newQty <= 0 {
				return apperr.Invalid("quantity must be greater than zero")
			}
		}

		received, distributed, err := ledgerTotals(tx, product.ID)
		if err != nil {
			return err
		}
		if received-current.Quantity+newQty < distributed {
			return &apperr.InsufficientStockError{
				Available: received - distributed,
				Requested: current.Quantity - newQty,
				Unit:      model.UnitLabel(product.UnitType),
			}
		}

		current.Quantity = newQty
		if upd.PurchasePricePerUnit != nil {
			if upd.PurchasePricePerUnit.IsNegative() {
				return apperr.Invalid("purchase_price_per_unit must not be negative")
			}
			current.PurchasePricePerUnit = decimal.NullDecimal{Decimal: *upd.PurchasePricePerUnit, Valid: true}
		}
		if upd.SupplierName != nil {
			current.SupplierName = *upd.SupplierName
		}
		if upd.SupplierContact != nil {
			current.SupplierContact = *upd.SupplierContact
		}
		if upd.DateAdded != nil {
			current.DateAdded = *upd.DateAdded
		}
		if upd.Notes != nil {
			current.Notes = *upd.Notes
		}

		if err := tx.SaveReceipt(current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		if apperr.IsInsufficientStock(err) {
			return nil, err
		}
		return nil, apperr.FromStore(err)
	}
	return updated, nil
}

// DeleteReceipt removes a receipt, but only when the remaining receipts still
// cover everything already distributed.
func (s *ledgerService) DeleteReceipt(id uuid.UUID) error {
	receipt, err := s.ledgerRepo.FindReceiptByID(id)
	if err != nil {
		return apperr.FromStore(err)
	}

	err = s.ledgerRepo.WithProductLock(receipt.ProductID, func(tx repository.LedgerTx, product *model.Product) error {
		current, err := tx.GetReceipt(id)
		if err != nil {
			return err
		}
		received, distributed, err := ledgerTotals(tx, product.ID)
		if err != nil {
			return err
		}
		if received-current.Quantity < distributed {
			return &apperr.InsufficientStockError{
				Available: received - distributed,
				Requested: current.Quantity,
				Unit:      model.UnitLabel(product.UnitType),
			}
		}
		return tx.DeleteReceipt(id)
	})
	if err != nil {
		if apperr.IsInsufficientStock(err) {
			return err
		}
		return apperr.FromStore(err)
	}
	return nil
}

// UpdateDistribution applies an administrative correction. Growing a
// distribution re-validates the invariant against current available stock.
func (s *ledgerService) UpdateDistribution(id uuid.UUID, upd *DistributionUpdate) (*model.Distribution, error) {
	dist, err := s.ledgerRepo.FindDistributionByID(id)
	if err != nil {
		return nil, apperr.FromStore(err)
	}

	if upd.MessID != nil {
		mess, err := s.messRepo.FindByID(*upd.MessID)
		if err != nil {
			return nil, apperr.FromStore(err)
		}
		if !mess.IsActive {
			return nil, fmt.Errorf("%w: mess is inactive", apperr.ErrNotFound)
		}
	}

	var updated *model.Distribution
	err = s.ledgerRepo.WithProductLock(dist.ProductID, func(tx repository.LedgerTx, product *model.Product) error {
		current, err := tx.GetDistribution(id)
		if err != nil {
			return err
		}

		newQty := current.Quantity
		if upd.Quantity != nil {
			newQty = *upd.Quantity
			if newQty <= 0 {
				return apperr.Invalid("quantity must be greater than zero")
			}
		}

		if extra := newQty - current.Quantity; extra > 0 {
			received, distributed, err := ledgerTotals(tx, product.ID)
			if err != nil {
				return err
			}
			available := received - distributed
			if available < extra {
				return &apperr.InsufficientStockError{
					Available: available,
					Requested: extra,
					Unit:      model.UnitLabel(product.UnitType),
				}
			}
		}

		current.Quantity = newQty
		if upd.MessID != nil {
			current.MessID = *upd.MessID
		}
		if upd.PricePerUnit != nil {
			if !upd.PricePerUnit.IsPositive() {
				return apperr.Invalid("price_per_unit must be greater than zero")
			}
			current.PricePerUnit = *upd.PricePerUnit
		}
		if upd.DistributionDate != nil {
			current.DistributionDate = *upd.DistributionDate
		}
		if upd.Notes != nil {
			current.Notes = *upd.Notes
		}
		current.TotalValue = current.ComputeTotalValue()

		if err := tx.SaveDistribution(current); err != nil {
			return err
		}
		updated = current
		return nil
	})
	if err != nil {
		if apperr.IsInsufficientStock(err) {
			return nil, err
		}
		return nil, apperr.FromStore(err)
	}
	return updated, nil
}

// DeleteDistribution only returns stock, so it never violates the invariant.
func (s *ledgerService) DeleteDistribution(id uuid.UUID) error {
	dist, err := s.ledgerRepo.FindDistributionByID(id)
	if err != nil {
		return apperr.FromStore(err)
	}
	err = s.ledgerRepo.WithProductLock(dist.ProductID, func(tx repository.LedgerTx, product *model.Product) error {
		return tx.DeleteDistribution(id)
	})
	return apperr.FromStore(err)
}

func (s *ledgerService) GetReceipt(id uuid.UUID) (*model.StockReceipt, error) {
	receipt, err := s.ledgerRepo.FindReceiptByID(id)
	return receipt, apperr.FromStore(err)
}

func (s *ledgerService) GetReceipts(limit, offset int) ([]model.StockReceipt, error) {
	return s.ledgerRepo.FindAllReceipts(limit, offset)
}

func (s *ledgerService) GetReceiptsByProduct(productID uuid.UUID, limit int) ([]model.StockReceipt, error) {
	return s.ledgerRepo.FindReceiptsByProduct(productID, limit)
}

func (s *ledgerService) RecentReceipts(days, limit int) ([]model.StockReceipt, error) {
	return s.ledgerRepo.RecentReceipts(days, limit)
}

func (s *ledgerService) GetDistribution(id uuid.UUID) (*model.Distribution, error) {
	dist, err := s.ledgerRepo.FindDistributionByID(id)
	return dist, apperr.FromStore(err)
}

func (s *ledgerService) GetDistributions(limit, offset int) ([]model.Distribution, error) {
	return s.ledgerRepo.FindAllDistributions(limit, offset)
}

func (s *ledgerService) GetDistributionsByMess(messID uuid.UUID, limit int) ([]model.Distribution, error) {
	return s.ledgerRepo.FindDistributionsByMess(messID, limit)
}

func (s *ledgerService) GetDistributionsByProduct(productID uuid.UUID, limit int) ([]model.Distribution, error) {
	return s.ledgerRepo.FindDistributionsByProduct(productID, limit)
}

func (s *ledgerService) RecentDistributions(days, limit int) ([]model.Distribution, error) {
	return s.ledgerRepo.RecentDistributions(days, limit)
}

func availableWithin(tx repository.LedgerTx, productID uuid.UUID) (int64, error) {
	received, distributed, err := ledgerTotals(tx, productID)
	if err != nil {
		return 0, err
	}
	return received - distributed, nil
}

func ledgerTotals(tx repository.LedgerTx, productID uuid.UUID) (received, distributed int64, err error) {
	received, err = tx.TotalReceived(productID)
	if err != nil {
		return 0, 0, err
	}
	distributed, err = tx.TotalDistributed(productID)
	if err != nil {
		return 0, 0, err
	}
	return received, distributed, nil
}
