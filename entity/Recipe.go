package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Recipe says how much of an ingredient one unit of a product consumes.
type Recipe struct {
	gorm.Model
	Quantity decimal.Decimal `gorm:"type:decimal(14,4);not null" json:"quantity"`

	ProductID uint    `gorm:"index;not null" json:"productId"`
	Product   Product `json:"-"`

	InventoryItemID uint          `gorm:"index;not null" json:"inventoryItemId"`
	InventoryItem   InventoryItem `json:"inventoryItem"`
}
