package repository

import (
	"go-bevdistro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendantRepository interface {
	Create(attendant *model.Attendant) error
	FindAll() ([]model.Attendant, error)
	FindByID(id uuid.UUID) (*model.Attendant, error)
	FindByMess(messID uuid.UUID) ([]model.Attendant, error)
	Update(attendant *model.Attendant) error
}

type attendantRepo struct {
	db *gorm.DB
}

func NewAttendantRepo(db *gorm.DB) AttendantRepository {
	return &attendantRepo{db}
}

func (r *attendantRepo) Create(attendant *model.Attendant) error {
	return r.db.Create(attendant).Error
}

func (r *attendantRepo) FindAll() ([]model.Attendant, error) {
	var attendants []model.Attendant
	err := r.db.Preload("Mess").
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&attendants).Error
	return attendants, err
}

func (r *attendantRepo) FindByID(id uuid.UUID) (*model.Attendant, error) {
	var attendant model.Attendant
	err := r.db.Preload("Mess").First(&attendant, "id = ?", id).Error
	return &attendant, err
}

func (r *attendantRepo) FindByMess(messID uuid.UUID) ([]model.Attendant, error) {
	var attendants []model.Attendant
	err := r.db.Where("mess_id = ? AND is_active = ?", messID, true).
		Order("role ASC, name ASC").
		Find(&attendants).Error
	return attendants, err
}

func (r *attendantRepo) Update(attendant *model.Attendant) error {
	return r.db.Save(attendant).Error
}
