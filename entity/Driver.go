package entity

import (
	"gorm.io/gorm"
)

type Driver struct {
	gorm.Model
	Name     string `gorm:"not null" json:"name"`
	Phone    string `json:"phone"`
	IsActive bool   `gorm:"not null;default:true" json:"isActive"`

	Deliveries []DeliveryOrder `json:"-"`
}
