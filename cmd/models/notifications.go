package models

import (
	"gorm.io/gorm"
)

type Device struct {
	gorm.Model
	Token      string `gorm:"not null;uniqueIndex:idx_token_tenant" json:"token"`
	TenantID   uint   `gorm:"not null;index;uniqueIndex:idx_token_tenant" json:"tenant_id"`
	DeviceType string `gorm:"type:varchar(50)" json:"device_type"`
	DeviceName string `gorm:"type:varchar(100)" json:"device_name,omitempty"`
}
