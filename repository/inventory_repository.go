package repository

import (
	"restopos/entity"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryRepository struct{ DB *gorm.DB }

func NewInventoryRepository(db *gorm.DB) *InventoryRepository { return &InventoryRepository{DB: db} }

// Decrement takes qty off the item only if that leaves stock non-negative.
// It reports false when the stock was short at the moment of the update.
func (r *InventoryRepository) Decrement(tx *gorm.DB, itemID uint, qty decimal.Decimal) (bool, error) {
	res := tx.Model(&entity.InventoryItem{}).
		Where("id = ? AND current_stock >= ?", itemID, qty).
		Update("current_stock", gorm.Expr("current_stock - ?", qty))
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "decrement inventory item %d", itemID)
	}
	return res.RowsAffected == 1, nil
}

func (r *InventoryRepository) Get(db *gorm.DB, itemID uint) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	if err := db.First(&it, itemID).Error; err != nil {
		return nil, errors.Wrapf(err, "get inventory item %d", itemID)
	}
	return &it, nil
}

func (r *InventoryRepository) FindByIDs(ids []uint) ([]entity.InventoryItem, error) {
	var out []entity.InventoryItem
	if len(ids) == 0 {
		return out, nil
	}
	err := r.DB.Where("id IN ?", ids).Order("name ASC").Find(&out).Error
	return out, errors.Wrap(err, "find inventory items")
}

func (r *InventoryRepository) List() ([]entity.InventoryItem, error) {
	var out []entity.InventoryItem
	err := r.DB.Order("name ASC").Find(&out).Error
	return out, errors.Wrap(err, "list inventory")
}

// ListLow returns items at or below their minimum stock.
func (r *InventoryRepository) ListLow() ([]entity.InventoryItem, error) {
	var out []entity.InventoryItem
	err := r.DB.Where("current_stock <= min_stock").Order("name ASC").Find(&out).Error
	return out, errors.Wrap(err, "list low stock")
}
