package service

import (
	"fmt"
	"time"

	"go-bevdistro/internal/apperr"
	"go-bevdistro/internal/model"
	"go-bevdistro/internal/repository"
	"go-bevdistro/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentUpdate is a partial update; nil fields keep their current value.
type PaymentUpdate struct {
	AmountPaid      *decimal.Decimal `json:"amount_paid"`
	PaymentDate     *time.Time       `json:"payment_date"`
	PaymentMethod   *string          `json:"payment_method"`
	ReferenceNumber *string          `json:"reference_number"`
	Notes           *string          `json:"notes"`
}

// PaymentService keeps the cash ledger per mess. Payments are independent of
// stock; the only derived figure is the outstanding balance
// (total distributed value minus total paid).
type PaymentService interface {
	RecordPayment(req *model.Payment) error
	UpdatePayment(id uuid.UUID, upd *PaymentUpdate) (*model.Payment, error)
	DeletePayment(id uuid.UUID) error
	GetPayment(id uuid.UUID) (*model.Payment, error)
	GetPayments(limit, offset int) ([]model.Payment, error)
	GetPaymentsByMess(messID uuid.UUID, limit int) ([]model.Payment, error)
	GetMessFinancialSummary(messID uuid.UUID) (*repository.MessFinancialSummary, error)
	GetAllMessFinancialSummaries() ([]repository.MessFinancialSummary, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	messRepo    repository.MessRepository
	events      EventBroadcaster
}

func NewPaymentService(paymentRepo repository.PaymentRepository, messRepo repository.MessRepository, events EventBroadcaster) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		messRepo:    messRepo,
		events:      events,
	}
}

func (s *paymentService) RecordPayment(req *model.Payment) error {
	if err := firstValidationError(req); err != nil {
		return err
	}
	if !req.AmountPaid.IsPositive() {
		return apperr.Invalid("amount_paid must be greater than zero")
	}

	mess, err := s.messRepo.FindByID(req.MessID)
	if err != nil {
		return apperr.FromStore(err)
	}
	if !mess.IsActive {
		return fmt.Errorf("%w: mess is inactive", apperr.ErrNotFound)
	}

	if req.PaymentDate.IsZero() {
		req.PaymentDate = time.Now()
	}
	if err := s.paymentRepo.Create(req); err != nil {
		return apperr.FromStore(err)
	}

	metrics.PaymentsTotal.Inc()
	s.events.BroadcastEvent("payment_update", "payment_recorded", map[string]interface{}{
		"payment_id":  req.ID,
		"mess_id":     req.MessID,
		"amount_paid": req.AmountPaid,
	})
	return nil
}

func (s *paymentService) UpdatePayment(id uuid.UUID, upd *PaymentUpdate) (*model.Payment, error) {
	payment, err := s.paymentRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromStore(err)
	}

	if upd.AmountPaid != nil {
		if !upd.AmountPaid.IsPositive() {
			return nil, apperr.Invalid("amount_paid must be greater than zero")
		}
		payment.AmountPaid = *upd.AmountPaid
	}
	if upd.PaymentDate != nil {
		payment.PaymentDate = *upd.PaymentDate
	}
	if upd.PaymentMethod != nil {
		payment.PaymentMethod = *upd.PaymentMethod
	}
	if upd.ReferenceNumber != nil {
		payment.ReferenceNumber = *upd.ReferenceNumber
	}
	if upd.Notes != nil {
		payment.Notes = *upd.Notes
	}

	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, apperr.FromStore(err)
	}
	return payment, nil
}

func (s *paymentService) DeletePayment(id uuid.UUID) error {
	if _, err := s.paymentRepo.FindByID(id); err != nil {
		return apperr.FromStore(err)
	}
	return apperr.FromStore(s.paymentRepo.Delete(id))
}

func (s *paymentService) GetPayment(id uuid.UUID) (*model.Payment, error) {
	payment, err := s.paymentRepo.FindByID(id)
	return payment, apperr.FromStore(err)
}

func (s *paymentService) GetPayments(limit, offset int) ([]model.Payment, error) {
	return s.paymentRepo.FindAll(limit, offset)
}

func (s *paymentService) GetPaymentsByMess(messID uuid.UUID, limit int) ([]model.Payment, error) {
	return s.paymentRepo.FindByMess(messID, limit)
}

func (s *paymentService) GetMessFinancialSummary(messID uuid.UUID) (*repository.MessFinancialSummary, error) {
	summary, err := s.paymentRepo.FinancialSummary(messID)
	return summary, apperr.FromStore(err)
}

func (s *paymentService) GetAllMessFinancialSummaries() ([]repository.MessFinancialSummary, error) {
	return s.paymentRepo.AllFinancialSummaries()
}
