package entity

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Customer struct {
	gorm.Model
	Phone          string                      `gorm:"size:32;uniqueIndex;not null" json:"phone"`
	Name           string                      `gorm:"not null" json:"name"`
	DefaultAddress string                      `json:"defaultAddress"`
	AddressHistory datatypes.JSONSlice[string] `json:"addressHistory"`
	OrderCount     int                         `gorm:"not null;default:0" json:"orderCount"`
	LastOrderDate  *time.Time                  `json:"lastOrderDate,omitempty"`

	Orders []Order `json:"-"`
}
