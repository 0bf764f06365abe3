package repository

import (
	"go-bevdistro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessRepository interface {
	Create(mess *model.Mess) error
	FindAll(activeOnly bool) ([]model.Mess, error)
	FindByID(id uuid.UUID) (*model.Mess, error)
	FindByName(name string) (*model.Mess, error)
	Update(mess *model.Mess) error
}

type messRepo struct {
	db *gorm.DB
}

func NewMessRepo(db *gorm.DB) MessRepository {
	return &messRepo{db}
}

func (r *messRepo) Create(mess *model.Mess) error {
	return r.db.Create(mess).Error
}

func (r *messRepo) FindAll(activeOnly bool) ([]model.Mess, error) {
	var messes []model.Mess
	q := r.db.Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&messes).Error
	return messes, err
}

func (r *messRepo) FindByID(id uuid.UUID) (*model.Mess, error) {
	var mess model.Mess
	err := r.db.First(&mess, "id = ?", id).Error
	return &mess, err
}

func (r *messRepo) FindByName(name string) (*model.Mess, error) {
	var mess model.Mess
	err := r.db.First(&mess, "LOWER(name) = LOWER(?)", name).Error
	return &mess, err
}

func (r *messRepo) Update(mess *model.Mess) error {
	return r.db.Save(mess).Error
}
