package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type InventoryItem struct {
	gorm.Model
	Name         string              `gorm:"size:150;uniqueIndex;not null" json:"name"`
	CurrentStock decimal.Decimal     `gorm:"type:decimal(14,4);not null;default:0" json:"currentStock"`
	MinStock     decimal.Decimal     `gorm:"type:decimal(14,4);not null;default:0" json:"minStock"`
	Unit         StockUnit           `gorm:"size:20;not null" json:"unit"`
	CostPerUnit  decimal.NullDecimal `gorm:"type:decimal(12,4)" json:"costPerUnit"`

	Recipes []Recipe `json:"-"`
}

// LowStock classifies the item against its threshold.
func (i *InventoryItem) LowStock() bool {
	return i.CurrentStock.LessThanOrEqual(i.MinStock)
}
