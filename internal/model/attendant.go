package model

import "github.com/google/uuid"

// Attendant is a staff member attached to a mess who can sign for deliveries.
type Attendant struct {
	BaseModel
	MessID   uuid.UUID `gorm:"type:uuid;not null;index" json:"mess_id" validate:"uuid_required"`
	Mess     *Mess     `gorm:"foreignKey:MessID" json:"mess,omitempty" validate:"-"`
	Name     string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone    string    `gorm:"type:varchar(30)" json:"phone"`
	Role     string    `gorm:"type:varchar(50)" json:"role"`
	IsActive bool      `gorm:"default:true" json:"is_active"`
}
