package entity

type StockUnit string

const (
	UnitGram       StockUnit = "GRAM"
	UnitKilogram   StockUnit = "KILOGRAM"
	UnitMilliliter StockUnit = "MILLILITER"
	UnitLiter      StockUnit = "LITER"
	UnitUnit       StockUnit = "UNIT"
)

func (u StockUnit) Valid() bool {
	switch u {
	case UnitGram, UnitKilogram, UnitMilliliter, UnitLiter, UnitUnit:
		return true
	}
	return false
}
