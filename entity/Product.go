package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Name         string          `gorm:"not null" json:"name"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	IsPreparable bool            `gorm:"not null;default:true" json:"isPreparable"`
	Barcode      *string         `gorm:"size:64;uniqueIndex" json:"barcode,omitempty"`
	IsActive     bool            `gorm:"not null;default:true" json:"isActive"`

	CategoryID *uint     `json:"categoryId,omitempty"`
	Category   *Category `json:"-"`

	Modifiers []Modifier `json:"modifiers"`
	// preloaded only when closing an order
	Recipes []Recipe `json:"-"`
}

// Modifier looks up a modifier by its display name.
func (p *Product) Modifier(name string) (Modifier, bool) {
	for _, m := range p.Modifiers {
		if m.Name == name {
			return m, true
		}
	}
	return Modifier{}, false
}
