package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment is cash received against a mess's outstanding balance. Payments are
// an independent ledger; they are not constrained by stock.
type Payment struct {
	BaseModel
	MessID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"mess_id" validate:"uuid_required"`
	Mess            *Mess           `gorm:"foreignKey:MessID" json:"mess,omitempty" validate:"-"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount_paid"`
	PaymentDate     time.Time       `gorm:"type:date;not null;index" json:"payment_date"`
	PaymentMethod   string          `gorm:"type:varchar(50)" json:"payment_method"`
	ReferenceNumber string          `gorm:"type:varchar(100)" json:"reference_number"`
	Notes           string          `gorm:"type:text" json:"notes"`
}
