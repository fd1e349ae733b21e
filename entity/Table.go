package entity

import (
	"gorm.io/gorm"
)

type Table struct {
	gorm.Model
	Number    int         `gorm:"uniqueIndex;not null" json:"number"`
	Capacity  int         `gorm:"not null;default:2" json:"capacity"`
	Status    TableStatus `gorm:"size:20;not null;default:FREE" json:"status"`
	PositionX *float64    `json:"positionX,omitempty"`
	PositionY *float64    `json:"positionY,omitempty"`

	// active orders, preloaded by the tables screen
	Orders []Order `json:"orders,omitempty"`
}
