package repository

import (
	"restopos/entity"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type CatalogRepository struct{ DB *gorm.DB }

func NewCatalogRepository(db *gorm.DB) *CatalogRepository { return &CatalogRepository{DB: db} }

// FindProductsByIDs resolves a cart's products in one read, modifiers included.
func (r *CatalogRepository) FindProductsByIDs(db *gorm.DB, ids []uint) ([]entity.Product, error) {
	var out []entity.Product
	if len(ids) == 0 {
		return out, nil
	}
	err := db.Preload("Modifiers").Where("id IN ?", ids).Find(&out).Error
	return out, errors.Wrap(err, "find products")
}

func (r *CatalogRepository) ListProducts(categoryID *uint, activeOnly bool) ([]entity.Product, error) {
	var out []entity.Product
	q := r.DB.Preload("Modifiers")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Order("name ASC").Find(&out).Error
	return out, errors.Wrap(err, "list products")
}

func (r *CatalogRepository) ListCategories() ([]entity.Category, error) {
	var out []entity.Category
	err := r.DB.Order("display_order ASC, name ASC").Find(&out).Error
	return out, errors.Wrap(err, "list categories")
}
