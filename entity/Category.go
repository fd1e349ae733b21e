package entity

import (
	"gorm.io/gorm"
)

type Category struct {
	gorm.Model
	Name         string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	DisplayOrder int    `gorm:"not null;default:0" json:"displayOrder"`

	Products []Product `json:"-"`
}
