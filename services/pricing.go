package services

import (
	"restopos/entity"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// PriceLines turns cart lines into order lines and their running total.
// Unit price is the product's base price plus the adjustment of every named
// modifier. Unknown modifier names are a validation error when strict is set
// and contribute nothing otherwise.
func PriceLines(items []OrderItemIn, products map[uint]*entity.Product, strict bool) ([]entity.OrderItem, decimal.Decimal, error) {
	total := decimal.Zero
	lines := make([]entity.OrderItem, 0, len(items))

	for i, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, decimal.Zero, NotFound("product", it.ProductID)
		}
		if it.Quantity <= 0 {
			return nil, decimal.Zero, Validation("items[%d]: quantity must be positive", i)
		}

		unit := p.Price
		for _, name := range it.Modifiers {
			m, found := p.Modifier(name)
			if !found {
				if strict {
					return nil, decimal.Zero, Validation("items[%d]: unknown modifier %q for %s", i, name, p.Name)
				}
				continue
			}
			unit = unit.Add(m.PriceAdjust)
		}

		mods := make(datatypes.JSONSlice[string], 0, len(it.Modifiers))
		mods = append(mods, it.Modifiers...)

		line := entity.OrderItem{
			ProductID: p.ID,
			Quantity:  it.Quantity,
			UnitPrice: unit,
			Modifiers: mods,
			Notes:     it.Notes,
		}
		total = total.Add(line.LineTotal())
		lines = append(lines, line)
	}
	return lines, total, nil
}
