package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderItem struct {
	gorm.Model
	Quantity int `gorm:"not null" json:"quantity"`
	// product price plus modifier adjustments at the time the order was placed
	UnitPrice decimal.Decimal             `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	Modifiers datatypes.JSONSlice[string] `json:"modifiers"`
	Notes     string                      `json:"notes"`

	OrderID uint  `gorm:"index;not null" json:"orderId"`
	Order   Order `json:"-"`

	ProductID uint    `gorm:"index;not null" json:"productId"`
	Product   Product `json:"product"`
}

func (oi *OrderItem) LineTotal() decimal.Decimal {
	return oi.UnitPrice.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}
