package service

import (
	"errors"
	"fmt"

	"go-bevdistro/internal/apperr"
	"go-bevdistro/internal/model"
	"go-bevdistro/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductUpdate / MessUpdate / AttendantUpdate are partial updates; nil fields
// keep their current value.
type ProductUpdate struct {
	Name            *string `json:"name"`
	UnitType        *string `json:"unit_type"`
	UnitsPerPackage *int    `json:"units_per_package"`
	Description     *string `json:"description"`
	IsActive        *bool   `json:"is_active"`
}

type MessUpdate struct {
	Name          *string `json:"name"`
	Location      *string `json:"location"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	IsActive      *bool   `json:"is_active"`
}

type AttendantUpdate struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// CatalogService manages the reference entities distributions hang off of.
// Products and messes are never hard-deleted once referenced; deactivation
// flips is_active and later ledger writes against them fail as not found.
type CatalogService interface {
	CreateProduct(req *model.Product) error
	UpdateProduct(id uuid.UUID, upd *ProductUpdate) (*model.Product, error)
	DeactivateProduct(id uuid.UUID) error
	GetProducts() ([]model.ProductWithStock, error)
	GetProduct(id uuid.UUID) (*model.ProductWithStock, error)

	CreateMess(req *model.Mess) error
	UpdateMess(id uuid.UUID, upd *MessUpdate) (*model.Mess, error)
	DeactivateMess(id uuid.UUID) error
	GetMesses() ([]model.Mess, error)
	GetMess(id uuid.UUID) (*model.Mess, error)

	CreateAttendant(req *model.Attendant) error
	UpdateAttendant(id uuid.UUID, upd *AttendantUpdate) (*model.Attendant, error)
	DeactivateAttendant(id uuid.UUID) error
	GetAttendants() ([]model.Attendant, error)
	GetAttendant(id uuid.UUID) (*model.Attendant, error)
	GetAttendantsByMess(messID uuid.UUID) ([]model.Attendant, error)
}

type catalogService struct {
	productRepo   repository.ProductRepository
	messRepo      repository.MessRepository
	attendantRepo repository.AttendantRepository
}

func NewCatalogService(productRepo repository.ProductRepository, messRepo repository.MessRepository, attendantRepo repository.AttendantRepository) CatalogService {
	return &catalogService{
		productRepo:   productRepo,
		messRepo:      messRepo,
		attendantRepo: attendantRepo,
	}
}

func (s *catalogService) CreateProduct(req *model.Product) error {
	if err := firstValidationError(req); err != nil {
		return err
	}

	// Product names are unique regardless of casing
	existing, err := s.productRepo.FindByName(req.Name)
	if err == nil && existing.ID != uuid.Nil {
		return fmt.Errorf("%w: product name already exists", apperr.ErrConstraintViolation)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.FromStore(err)
	}

	if req.UnitsPerPackage <= 0 {
		req.UnitsPerPackage = 1
	}
	req.IsActive = true
	return apperr.FromStore(s.productRepo.Create(req))
}

func (s *catalogService) UpdateProduct(id uuid.UUID, upd *ProductUpdate) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromStore(err)
	}

	if upd.Name != nil && *upd.Name != product.Name {
		existing, err := s.productRepo.FindByName(*upd.Name)
		if err == nil && existing.ID != product.ID {
			return nil, fmt.Errorf("%w: product name already exists", apperr.ErrConstraintViolation)
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.FromStore(err)
		}
		product.Name = *upd.Name
	}
	if upd.UnitType != nil {
		if !model.ValidUnitType(*upd.UnitType) {
			return nil, apperr.Invalid("unit_type must be crate or piece")
		}
		product.UnitType = *upd.UnitType
	}
	if upd.UnitsPerPackage != nil {
		if *upd.UnitsPerPackage <= 0 {
			return nil, apperr.Invalid("units_per_package must be greater than zero")
		}
		product.UnitsPerPackage = *upd.UnitsPerPackage
	}
	if upd.Description != nil {
		product.Description = *upd.Description
	}
	if upd.IsActive != nil {
		product.IsActive = *upd.IsActive
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, apperr.FromStore(err)
	}
	return product, nil
}

// DeactivateProduct soft-deletes: historical receipts and distributions keep
// their references intact.
func (s *catalogService) DeactivateProduct(id uuid.UUID) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return apperr.FromStore(err)
	}
	product.IsActive = false
	return apperr.FromStore(s.productRepo.Update(product))
}

func (s *catalogService) GetProducts() ([]model.ProductWithStock, error) {
	return s.productRepo.FindAllWithStock()
}

func (s *catalogService) GetProduct(id uuid.UUID) (*model.ProductWithStock, error) {
	product, err := s.productRepo.FindByIDWithStock(id)
	return product, apperr.FromStore(err)
}

func (s *catalogService) CreateMess(req *model.Mess) error {
	if err := firstValidationError(req); err != nil {
		return err
	}

	existing, err := s.messRepo.FindByName(req.Name)
	if err == nil && existing.ID != uuid.Nil {
		return fmt.Errorf("%w: mess name already exists", apperr.ErrConstraintViolation)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.FromStore(err)
	}

	req.IsActive = true
	return apperr.FromStore(s.messRepo.Create(req))
}

func (s *catalogService) UpdateMess(id uuid.UUID, upd *MessUpdate) (*model.Mess, error) {
	mess, err := s.messRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromStore(err)
	}

	if upd.Name != nil && *upd.Name != mess.Name {
		existing, err := s.messRepo.FindByName(*upd.Name)
		if err == nil && existing.ID != mess.ID {
			return nil, fmt.Errorf("%w: mess name already exists", apperr.ErrConstraintViolation)
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.FromStore(err)
		}
		mess.Name = *upd.Name
	}
	if upd.Location != nil {
		mess.Location = *upd.Location
	}
	if upd.ContactPerson != nil {
		mess.ContactPerson = *upd.ContactPerson
	}
	if upd.Phone != nil {
		mess.Phone = *upd.Phone
	}
	if upd.IsActive != nil {
		mess.IsActive = *upd.IsActive
	}

	if err := s.messRepo.Update(mess); err != nil {
		return nil, apperr.FromStore(err)
	}
	return mess, nil
}

func (s *catalogService) DeactivateMess(id uuid.UUID) error {
	mess, err := s.messRepo.FindByID(id)
	if err != nil {
		return apperr.FromStore(err)
	}
	mess.IsActive = false
	return apperr.FromStore(s.messRepo.Update(mess))
}

func (s *catalogService) GetMesses() ([]model.Mess, error) {
	return s.messRepo.FindAll(true)
}

func (s *catalogService) GetMess(id uuid.UUID) (*model.Mess, error) {
	mess, err := s.messRepo.FindByID(id)
	return mess, apperr.FromStore(err)
}

func (s *catalogService) CreateAttendant(req *model.Attendant) error {
	if err := firstValidationError(req); err != nil {
		return err
	}

	mess, err := s.messRepo.FindByID(req.MessID)
	if err != nil {
		return apperr.FromStore(err)
	}
	if !mess.IsActive {
		return fmt.Errorf("%w: mess is inactive", apperr.ErrNotFound)
	}

	req.IsActive = true
	return apperr.FromStore(s.attendantRepo.Create(req))
}

func (s *catalogService) UpdateAttendant(id uuid.UUID, upd *AttendantUpdate) (*model.Attendant, error) {
	attendant, err := s.attendantRepo.FindByID(id)
	if err != nil {
		return nil, apperr.FromStore(err)
	}

	if upd.Name != nil {
		attendant.Name = *upd.Name
	}
	if upd.Phone != nil {
		attendant.Phone = *upd.Phone
	}
	if upd.Role != nil {
		attendant.Role = *upd.Role
	}
	if upd.IsActive != nil {
		attendant.IsActive = *upd.IsActive
	}

	if err := s.attendantRepo.Update(attendant); err != nil {
		return nil, apperr.FromStore(err)
	}
	return attendant, nil
}

func (s *catalogService) DeactivateAttendant(id uuid.UUID) error {
	attendant, err := s.attendantRepo.FindByID(id)
	if err != nil {
		return apperr.FromStore(err)
	}
	attendant.IsActive = false
	return apperr.FromStore(s.attendantRepo.Update(attendant))
}

func (s *catalogService) GetAttendants() ([]model.Attendant, error) {
	return s.attendantRepo.FindAll()
}

func (s *catalogService) GetAttendant(id uuid.UUID) (*model.Attendant, error) {
	attendant, err := s.attendantRepo.FindByID(id)
	return attendant, apperr.FromStore(err)
}

func (s *catalogService) GetAttendantsByMess(messID uuid.UUID) ([]model.Attendant, error) {
	return s.attendantRepo.FindByMess(messID)
}
