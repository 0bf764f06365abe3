package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Distribution records goods delivered to a mess. Distributions decrease a
// product's available stock and may only be created when sufficient stock
// exists at creation time.
type Distribution struct {
	BaseModel
	MessID    uuid.UUID `gorm:"type:uuid;not null;index" json:"mess_id" validate:"uuid_required"`
	Mess      *Mess     `gorm:"foreignKey:MessID" json:"mess,omitempty" validate:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
	Quantity  int64     `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	// Selling price per unit; total_value = quantity * price_per_unit, exact
	PricePerUnit     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_per_unit"`
	TotalValue       decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_value"`
	UnitType         string          `gorm:"type:varchar(10);not null;default:'crate'" json:"unit_type"`
	AttendantID      *uuid.UUID      `gorm:"type:uuid" json:"attendant_id,omitempty"`
	Attendant        *Attendant      `gorm:"foreignKey:AttendantID" json:"attendant,omitempty" validate:"-"`
	DistributionDate time.Time       `gorm:"type:date;not null;index" json:"distribution_date"`
	Notes            string          `gorm:"type:text" json:"notes"`
}

// ComputeTotalValue returns quantity * price_per_unit without rounding drift.
func (d *Distribution) ComputeTotalValue() decimal.Decimal {
	return d.PricePerUnit.Mul(decimal.NewFromInt(d.Quantity))
}
