package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Modifier struct {
	gorm.Model
	Name        string          `gorm:"not null" json:"name"`
	PriceAdjust decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"priceAdjust"`

	ProductID uint `gorm:"index;not null" json:"productId"`
}
