package services

import (
	"context"

	"restopos/entity"
	"restopos/repository"

	"gorm.io/gorm"
)

type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService { return &CatalogService{DB: db} }

func (s *CatalogService) Products(ctx context.Context, categoryID *uint, activeOnly bool) ([]entity.Product, error) {
	out, err := repository.NewCatalogRepository(s.DB.WithContext(ctx)).ListProducts(categoryID, activeOnly)
	return out, classify(err, "products", "", "list products")
}

func (s *CatalogService) Categories(ctx context.Context) ([]entity.Category, error) {
	out, err := repository.NewCatalogRepository(s.DB.WithContext(ctx)).ListCategories()
	return out, classify(err, "categories", "", "list categories")
}
