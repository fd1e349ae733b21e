package services

import (
	"context"

	"restopos/entity"
	"restopos/repository"

	"gorm.io/gorm"
)

type InventoryService struct {
	DB *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService { return &InventoryService{DB: db} }

// StockView is an inventory row with its low-stock classification.
type StockView struct {
	entity.InventoryItem
	Low bool `json:"lowStock"`
}

func views(items []entity.InventoryItem) []StockView {
	out := make([]StockView, 0, len(items))
	for i := range items {
		out = append(out, StockView{InventoryItem: items[i], Low: items[i].LowStock()})
	}
	return out
}

func (s *InventoryService) List(ctx context.Context) ([]StockView, error) {
	items, err := repository.NewInventoryRepository(s.DB.WithContext(ctx)).List()
	if err != nil {
		return nil, classify(err, "inventory", "", "list inventory")
	}
	return views(items), nil
}

func (s *InventoryService) LowStock(ctx context.Context) ([]StockView, error) {
	items, err := repository.NewInventoryRepository(s.DB.WithContext(ctx)).ListLow()
	if err != nil {
		return nil, classify(err, "inventory", "", "list low stock")
	}
	return views(items), nil
}
