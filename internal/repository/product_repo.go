package repository

import (
	"go-bevdistro/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll(activeOnly bool) ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByName(name string) (*model.Product, error)
	Update(product *model.Product) error
	FindAllWithStock() ([]model.ProductWithStock, error)
	FindByIDWithStock(id uuid.UUID) (*model.ProductWithStock, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll(activeOnly bool) ([]model.Product, error) {
	var products []model.Product
	q := r.db.Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	return &product, err
}

// FindByName matches case-insensitively; product names are unique regardless
// of casing.
func (r *productRepo) FindByName(name string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "LOWER(name) = LOWER(?)", name).Error
	return &product, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) FindAllWithStock() ([]model.ProductWithStock, error) {
	var products []model.ProductWithStock
	err := r.db.Model(&model.Product{}).
		Select(`products.*,
			COALESCE(cs.current_stock, 0) AS current_stock,
			COALESCE(cs.total_added, 0) AS total_added,
			COALESCE(cs.total_distributed, 0) AS total_distributed`).
		Joins("LEFT JOIN v_current_stock cs ON products.id = cs.product_id").
		Where("products.is_active = ?", true).
		Order("products.name ASC").
		Scan(&products).Error
	return products, err
}

func (r *productRepo) FindByIDWithStock(id uuid.UUID) (*model.ProductWithStock, error) {
	var product model.ProductWithStock
	err := r.db.Model(&model.Product{}).
		Select(`products.*,
			COALESCE(cs.current_stock, 0) AS current_stock,
			COALESCE(cs.total_added, 0) AS total_added,
			COALESCE(cs.total_distributed, 0) AS total_distributed`).
		Joins("LEFT JOIN v_current_stock cs ON products.id = cs.product_id").
		Where("products.id = ?", id).
		First(&product).Error
	return &product, err
}
