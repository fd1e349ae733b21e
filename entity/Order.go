package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Order struct {
	gorm.Model
	Status   OrderStatus     `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	Type     OrderType       `gorm:"size:20;not null" json:"type"`
	Total    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Notes    string          `json:"notes"`
	ClosedAt *time.Time      `json:"closedAt,omitempty"`

	TableID *uint  `gorm:"index" json:"tableId,omitempty"`
	Table   *Table `json:"table,omitempty"`

	CustomerID *uint     `gorm:"index" json:"customerId,omitempty"`
	Customer   *Customer `json:"customer,omitempty"`

	Items    []OrderItem    `json:"items"`
	Delivery *DeliveryOrder `json:"delivery,omitempty"`
}
