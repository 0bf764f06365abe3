package model

// Mess is a client site receiving distributions.
type Mess struct {
	BaseModel
	// Case-insensitive uniqueness via the LOWER(name) index, see
	// database.EnsureNameIndexes
	Name          string `gorm:"type:varchar(255);index;not null" json:"name" validate:"required"`
	Location      string `gorm:"type:varchar(255)" json:"location"`
	ContactPerson string `gorm:"type:varchar(255)" json:"contact_person"`
	Phone         string `gorm:"type:varchar(30)" json:"phone"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`
}
