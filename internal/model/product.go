package model

// Unit types a product can be tracked in.
const (
	UnitCrate = "crate"
	UnitPiece = "piece"
)

// UnitLabel returns the plural label used in stock messages.
func UnitLabel(unitType string) string {
	if unitType == UnitPiece {
		return "pieces"
	}
	return "crates"
}

// ValidUnitType reports whether s is one of the tracked unit types.
func ValidUnitType(s string) bool {
	return s == UnitCrate || s == UnitPiece
}

type Product struct {
	BaseModel
	// Uniqueness is case-insensitive, enforced by a partial unique index on
	// LOWER(name) created in database.EnsureNameIndexes
	Name string `gorm:"type:varchar(255);index;not null" json:"name" validate:"required"`
	// crate or piece; snapshotted onto receipts and distributions
	UnitType        string `gorm:"type:varchar(10);not null;default:'crate'" json:"unit_type" validate:"required,unit_type"`
	UnitsPerPackage int    `gorm:"default:1" json:"units_per_package" validate:"omitempty,gte=1"`
	Description     string `gorm:"type:text" json:"description"`
	IsActive        bool   `gorm:"default:true" json:"is_active"`
}

// ProductWithStock is a Product joined with its derived stock figures.
type ProductWithStock struct {
	Product
	CurrentStock     int64 `json:"current_stock"`
	TotalAdded       int64 `json:"total_added"`
	TotalDistributed int64 `json:"total_distributed"`
}
