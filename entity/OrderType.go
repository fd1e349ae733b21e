package entity

type OrderType string

const (
	OrderDineIn   OrderType = "DINE_IN"
	OrderTakeaway OrderType = "TAKEAWAY"
	OrderDelivery OrderType = "DELIVERY"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderDineIn, OrderTakeaway, OrderDelivery:
		return true
	}
	return false
}

func ParseOrderType(v string) (OrderType, bool) {
	t := OrderType(v)
	return t, t.Valid()
}
