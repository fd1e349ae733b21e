package entity

type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "PENDING"
	DeliveryAssigned  DeliveryStatus = "ASSIGNED"
	DeliveryPickedUp  DeliveryStatus = "PICKED_UP"
	DeliveryInTransit DeliveryStatus = "IN_TRANSIT"
	DeliveryDelivered DeliveryStatus = "DELIVERED"
	DeliveryCancelled DeliveryStatus = "CANCELLED"
)

func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryPending, DeliveryAssigned, DeliveryPickedUp, DeliveryInTransit, DeliveryDelivered, DeliveryCancelled:
		return true
	}
	return false
}

func ParseDeliveryStatus(v string) (DeliveryStatus, bool) {
	s := DeliveryStatus(v)
	return s, s.Valid()
}
