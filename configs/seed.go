package configs

import (
	"restopos/entity"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type seedIngredient struct {
	name    string
	current int64
	min     int64
	unit    entity.StockUnit
	cost    string
}

type seedProduct struct {
	name       string
	category   string
	price      string
	preparable bool
	modifiers  map[string]string
	recipe     map[string]int64
}

var (
	seedCategories = []string{"Café", "Bebidas", "Comida", "Postres"}

	seedIngredients = []seedIngredient{
		{"Café molido", 5000, 1000, entity.UnitGram, "0.05"},
		{"Leche entera", 20000, 5000, entity.UnitMilliliter, "0.001"},
		{"Leche oat", 10000, 2000, entity.UnitMilliliter, "0.002"},
		{"Agua", 50000, 10000, entity.UnitMilliliter, "0.0005"},
		{"Jugo de naranja", 15000, 3000, entity.UnitMilliliter, "0.003"},
		{"Pan croissant", 50, 10, entity.UnitUnit, "1.5"},
		{"Queso", 3000, 500, entity.UnitGram, "0.02"},
		{"Jamón", 2000, 500, entity.UnitGram, "0.03"},
		{"Harina", 10000, 2000, entity.UnitGram, "0.002"},
		{"Azúcar", 8000, 2000, entity.UnitGram, "0.002"},
	}

	seedProducts = []seedProduct{
		{"Espresso", "Café", "2.50", true, map[string]string{"Shot extra": "1.00"}, map[string]int64{"Café molido": 18}},
		{"Americano", "Café", "3.00", true, nil, map[string]int64{"Café molido": 18, "Agua": 150}},
		{"Cappuccino", "Café", "4.50", true, map[string]string{"Leche Oat": "0.50"}, map[string]int64{"Café molido": 18, "Leche entera": 150}},
		{"Latte", "Café", "4.50", true, map[string]string{"Shot extra": "1.00", "Leche Oat": "0.50"}, map[string]int64{"Café molido": 18, "Leche entera": 200}},
		{"Flat White", "Café", "4.00", true, nil, map[string]int64{"Café molido": 18, "Leche entera": 120}},
		{"Mocha", "Café", "5.00", true, nil, map[string]int64{"Café molido": 18, "Leche entera": 150}},
		{"Agua embotellada", "Bebidas", "2.00", false, nil, nil},
		{"Jugo de Naranja", "Bebidas", "4.00", true, nil, map[string]int64{"Jugo de naranja": 200}},
		{"Croissant de Mantequilla", "Comida", "3.50", true, nil, map[string]int64{"Pan croissant": 1}},
		{"Sándwich Jamón y Queso", "Comida", "8.50", true, nil, map[string]int64{"Pan croissant": 1, "Queso": 60, "Jamón": 50}},
		{"Cookie de Chocolate", "Postres", "3.00", false, nil, nil},
		{"Brownie", "Postres", "6.00", true, nil, map[string]int64{"Harina": 50, "Azúcar": 30}},
	}

	seedDrivers = []entity.Driver{
		{Name: "Carlos", Phone: "555-0101", IsActive: true},
		{Name: "Lucía", Phone: "555-0102", IsActive: true},
	}
)

// SeedDemo fills an empty database with a small café: catalog, recipes,
// stock, tables and drivers. Running it twice changes nothing.
func SeedDemo(database *gorm.DB, log logrus.FieldLogger) error {
	return database.Transaction(func(tx *gorm.DB) error {
		categories := map[string]uint{}
		for i, name := range seedCategories {
			c := entity.Category{}
			if err := tx.Where(entity.Category{Name: name}).Attrs(entity.Category{DisplayOrder: i + 1}).FirstOrCreate(&c).Error; err != nil {
				return errors.Wrapf(err, "seed category %s", name)
			}
			categories[name] = c.ID
		}

		ingredients := map[string]uint{}
		for _, s := range seedIngredients {
			it := entity.InventoryItem{}
			attrs := entity.InventoryItem{
				CurrentStock: decimal.NewFromInt(s.current),
				MinStock:     decimal.NewFromInt(s.min),
				Unit:         s.unit,
				CostPerUnit:  decimal.NewNullDecimal(decimal.RequireFromString(s.cost)),
			}
			if err := tx.Where(entity.InventoryItem{Name: s.name}).Attrs(attrs).FirstOrCreate(&it).Error; err != nil {
				return errors.Wrapf(err, "seed inventory %s", s.name)
			}
			ingredients[s.name] = it.ID
		}

		for _, s := range seedProducts {
			catID := categories[s.category]
			p := entity.Product{}
			attrs := entity.Product{
				Price:        decimal.RequireFromString(s.price),
				IsPreparable: s.preparable,
				IsActive:     true,
				CategoryID:   &catID,
			}
			if err := tx.Where(entity.Product{Name: s.name}).Attrs(attrs).FirstOrCreate(&p).Error; err != nil {
				return errors.Wrapf(err, "seed product %s", s.name)
			}
			// gorm ข้ามค่า false ใน Attrs แล้วใช้ default:true ของคอลัมน์แทน
			if !s.preparable && p.IsPreparable {
				if err := tx.Model(&p).Update("is_preparable", false).Error; err != nil {
					return errors.Wrapf(err, "seed product %s", s.name)
				}
			}

			for name, adjust := range s.modifiers {
				m := entity.Modifier{}
				cond := entity.Modifier{ProductID: p.ID, Name: name}
				if err := tx.Where(cond).Attrs(entity.Modifier{PriceAdjust: decimal.RequireFromString(adjust)}).FirstOrCreate(&m).Error; err != nil {
					return errors.Wrapf(err, "seed modifier %s/%s", s.name, name)
				}
			}
			for ingredient, qty := range s.recipe {
				r := entity.Recipe{}
				cond := entity.Recipe{ProductID: p.ID, InventoryItemID: ingredients[ingredient]}
				if err := tx.Where(cond).Attrs(entity.Recipe{Quantity: decimal.NewFromInt(qty)}).FirstOrCreate(&r).Error; err != nil {
					return errors.Wrapf(err, "seed recipe %s/%s", s.name, ingredient)
				}
			}
		}

		for n := 1; n <= 8; n++ {
			capacity := 4
			if n <= 4 {
				capacity = 2
			}
			t := entity.Table{}
			if err := tx.Where(entity.Table{Number: n}).Attrs(entity.Table{Capacity: capacity, Status: entity.TableFree}).FirstOrCreate(&t).Error; err != nil {
				return errors.Wrapf(err, "seed table %d", n)
			}
		}

		for _, d := range seedDrivers {
			drv := entity.Driver{}
			if err := tx.Where(entity.Driver{Name: d.Name}).Attrs(d).FirstOrCreate(&drv).Error; err != nil {
				return errors.Wrapf(err, "seed driver %s", d.Name)
			}
		}

		log.WithFields(logrus.Fields{
			"categories":  len(seedCategories),
			"ingredients": len(seedIngredients),
			"products":    len(seedProducts),
		}).Info("demo data seeded")
		return nil
	})
}
