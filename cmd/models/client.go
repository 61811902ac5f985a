package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Client struct {
	gorm.Model
	TenantID  uint   `gorm:"column:tenant_id;index;not null" json:"tenant_id"`
	FirstName string `gorm:"column:first_name;size:255;not null" json:"first_name"`
	LastName  string `gorm:"column:last_name;size:255" json:"last_name"`
	Phone     string `gorm:"column:phone;size:20" json:"phone"`
	Email     string `gorm:"column:email;size:255;index" json:"email"`
	Source    string `gorm:"column:source;size:50;default:'online'" json:"source"`
	Notes     string `gorm:"column:notes;type:text" json:"notes,omitempty"`

	LoyaltyPoints int `gorm:"column:loyalty_points;default:0" json:"loyalty_points"`

	LastVisit    *time.Time `gorm:"column:last_visit" json:"last_visit,omitempty"`
	TotalVisits  int        `gorm:"column:total_visits;default:0" json:"total_visits"`
	TotalSpent   float64    `gorm:"column:total_spent;default:0" json:"total_spent"`
	AverageSpent float64    `gorm:"column:average_spent;default:0" json:"average_spent"`

	FavoriteServices pq.StringArray `gorm:"type:text[];column:favorite_services" json:"favorite_services,omitempty"`
	PreferredStaff   pq.StringArray `gorm:"type:text[];column:preferred_staff" json:"preferred_staff,omitempty"`

	EmailOptIn bool `gorm:"column:email_opt_in;default:true" json:"email_opt_in"`
	SMSOptIn   bool `gorm:"column:sms_opt_in;default:true" json:"sms_opt_in"`

	HairProfile string `gorm:"column:hair_profile;type:text" json:"hair_profile,omitempty"`
	SkinProfile string `gorm:"column:skin_profile;type:text" json:"skin_profile,omitempty"`

	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

func (Client) TableName() string {
	return "clients"
}
