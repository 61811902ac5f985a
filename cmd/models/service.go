package models

import (
	"gorm.io/gorm"
)

type Service struct {
	gorm.Model
	TenantID    uint    `gorm:"column:tenant_id;index;not null" json:"tenant_id"`
	Name        string  `gorm:"column:name;size:255;not null" json:"name"`
	Description string  `gorm:"column:description;type:text" json:"description,omitempty"`
	Category    string  `gorm:"column:category;size:50" json:"category,omitempty"`
	Duration    int     `gorm:"column:duration;not null" json:"duration"`
	Price       float64 `gorm:"column:price;not null" json:"price"`
	Currency    string  `gorm:"column:currency;size:3;default:'EUR'" json:"currency"`

	// Padding minutes during which the staff member is occupied around the
	// core duration.
	BufferBefore int `gorm:"column:buffer_before;default:0" json:"buffer_before"`
	BufferAfter  int `gorm:"column:buffer_after;default:0" json:"buffer_after"`

	DepositRequired bool    `gorm:"column:deposit_required;default:false" json:"deposit_required"`
	DepositAmount   float64 `gorm:"column:deposit_amount;default:0" json:"deposit_amount"`

	Active bool `gorm:"column:active;default:true" json:"active"`

	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

func (Service) TableName() string {
	return "services"
}
