package services

import (
	"context"
	"time"

	"restopos/entity"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Routing keys of the lifecycle events.
const (
	EventOrderCreated   = "order.created"
	EventOrderStatus    = "order.status"
	EventOrderClosed    = "order.closed"
	EventDeliveryStatus = "delivery.status"
	EventInventoryLow   = "inventory.low"
)

// Publisher ships an event to the broker. pkg/rabbitmq provides the real one.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type OrderEvent struct {
	OrderID    uint               `json:"orderId"`
	Status     entity.OrderStatus `json:"status"`
	Type       entity.OrderType   `json:"type"`
	Total      decimal.Decimal    `json:"total"`
	TableID    *uint              `json:"tableId,omitempty"`
	CustomerID *uint              `json:"customerId,omitempty"`
	At         time.Time          `json:"at"`
}

type DeliveryEvent struct {
	DeliveryID uint                  `json:"deliveryId"`
	OrderID    uint                  `json:"orderId"`
	Status     entity.DeliveryStatus `json:"status"`
	DriverID   *uint                 `json:"driverId,omitempty"`
	At         time.Time             `json:"at"`
}

type LowStockEvent struct {
	InventoryItemID uint             `json:"inventoryItemId"`
	Name            string           `json:"name"`
	Unit            entity.StockUnit `json:"unit"`
	CurrentStock    decimal.Decimal  `json:"currentStock"`
	MinStock        decimal.Decimal  `json:"minStock"`
	At              time.Time        `json:"at"`
}

func orderEvent(o *entity.Order, at time.Time) OrderEvent {
	return OrderEvent{
		OrderID:    o.ID,
		Status:     o.Status,
		Type:       o.Type,
		Total:      o.Total,
		TableID:    o.TableID,
		CustomerID: o.CustomerID,
		At:         at,
	}
}

// EventBus publishes after the fact. A failed publish never undoes the
// committed change; it is only logged.
type EventBus struct {
	pub Publisher
	log logrus.FieldLogger
}

func NewEventBus(pub Publisher, log logrus.FieldLogger) *EventBus {
	return &EventBus{pub: pub, log: log}
}

func (b *EventBus) emit(ctx context.Context, key string, payload any) {
	if b == nil || b.pub == nil {
		return
	}
	if err := b.pub.Publish(ctx, key, payload); err != nil {
		b.log.WithError(err).WithField("event", key).Warn("publish event failed")
	}
}
