package entity

// OrderStatus is the kitchen-side lifecycle of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPreparing OrderStatus = "PREPARING"
	OrderReady     OrderStatus = "READY"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderClosed    OrderStatus = "CLOSED"
	OrderCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady, OrderDelivered, OrderClosed, OrderCancelled:
		return true
	}
	return false
}

// Active reports whether the kitchen display should show the order.
func (s OrderStatus) Active() bool {
	switch s {
	case OrderPending, OrderPreparing, OrderReady:
		return true
	case OrderDelivered, OrderClosed, OrderCancelled:
		return false
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderClosed, OrderCancelled:
		return true
	case OrderPending, OrderPreparing, OrderReady, OrderDelivered:
		return false
	}
	return false
}

func ParseOrderStatus(v string) (OrderStatus, bool) {
	s := OrderStatus(v)
	return s, s.Valid()
}

// ActiveOrderStatuses are the statuses fed to the kitchen display.
var ActiveOrderStatuses = []OrderStatus{OrderPending, OrderPreparing, OrderReady}
