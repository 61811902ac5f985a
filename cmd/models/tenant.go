package models

import (
	"gorm.io/gorm"
)

type Tenant struct {
	gorm.Model
	Name         string `gorm:"column:name;size:255;not null" json:"name"`
	Slug         string `gorm:"column:slug;size:255;not null;uniqueIndex" json:"slug"`
	Email        string `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"column:password_hash;size:255;not null" json:"-"`
	Phone        string `gorm:"column:phone;size:20" json:"phone"`
	Address      string `gorm:"column:address;size:500" json:"address"`
	Currency     string `gorm:"column:currency;size:3;default:'EUR'" json:"currency"`
	Plan         string `gorm:"column:plan;size:50;not null;default:'starter'" json:"plan"`
	Active       bool   `gorm:"column:active;default:true" json:"active"`

	// Legacy opaque token granting unauthenticated booking access to this salon.
	AccessToken string `gorm:"column:access_token;size:64;uniqueIndex" json:"-"`

	Staff    []Staff   `gorm:"foreignKey:TenantID" json:"staff,omitempty"`
	Services []Service `gorm:"foreignKey:TenantID" json:"services,omitempty"`
}

func (Tenant) TableName() string {
	return "tenants"
}
