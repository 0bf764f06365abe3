package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockReceipt records a stock purchase. Receipts only ever increase a
// product's available stock.
type StockReceipt struct {
	BaseModel
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty" validate:"-"`
	Quantity  int64     `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	// Optional; used by the profit reports (average-cost)
	PurchasePricePerUnit decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"purchase_price_per_unit"`
	UnitType             string              `gorm:"type:varchar(10);not null;default:'crate'" json:"unit_type"`
	SupplierName         string              `gorm:"type:varchar(255)" json:"supplier_name"`
	SupplierContact      string              `gorm:"type:varchar(255)" json:"supplier_contact"`
	DateAdded            time.Time           `gorm:"type:date;not null;index" json:"date_added"`
	Notes                string              `gorm:"type:text" json:"notes"`
}

// TableName keeps the table name the ledger has always used.
func (StockReceipt) TableName() string {
	return "inventory"
}
