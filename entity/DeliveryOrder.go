package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DeliveryOrder keeps a snapshot of the customer's contact data at order time.
type DeliveryOrder struct {
	gorm.Model
	CustomerName    string          `gorm:"not null" json:"customerName"`
	CustomerPhone   string          `gorm:"not null" json:"customerPhone"`
	CustomerAddress string          `gorm:"not null" json:"customerAddress"`
	DeliveryFee     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"deliveryFee"`
	EstimatedTime   int             `json:"estimatedTime"`
	Status          DeliveryStatus  `gorm:"size:20;not null;default:PENDING;index" json:"status"`
	PickupTime      *time.Time      `json:"pickupTime,omitempty"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`

	OrderID uint   `gorm:"uniqueIndex;not null" json:"orderId"`
	Order   *Order `json:"order,omitempty"`

	DriverID *uint   `gorm:"index" json:"driverId,omitempty"`
	Driver   *Driver `json:"driver,omitempty"`
}
