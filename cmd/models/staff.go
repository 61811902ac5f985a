package models

import (
	"gorm.io/gorm"
)

type Staff struct {
	gorm.Model
	TenantID  uint   `gorm:"column:tenant_id;index;not null" json:"tenant_id"`
	FirstName string `gorm:"column:first_name;size:255;not null" json:"first_name"`
	LastName  string `gorm:"column:last_name;size:255" json:"last_name"`
	Email     string `gorm:"column:email;size:255" json:"email"`
	Phone     string `gorm:"column:phone;size:20" json:"phone"`
	Role      string `gorm:"column:role;size:50;default:'stylist'" json:"role"`
	Active    bool   `gorm:"column:active;default:true" json:"active"`

	WorkingHours []WorkingHours `gorm:"foreignKey:StaffID;constraint:OnDelete:CASCADE;" json:"working_hours,omitempty"`
	Tenant       *Tenant        `gorm:"foreignKey:TenantID" json:"-"`
}

func (Staff) TableName() string {
	return "staff"
}

// WorkingHours describes one weekday (0 = Sunday) of a staff member's week.
// Rows are tenant-scoped so a lookup can never cross salons even if staff
// ids from different tenants collide numerically.
type WorkingHours struct {
	gorm.Model
	TenantID  uint   `gorm:"column:tenant_id;not null;index:idx_tenant_staff_weekday,unique" json:"tenant_id"`
	StaffID   uint   `gorm:"column:staff_id;not null;index:idx_tenant_staff_weekday,unique" json:"staff_id"`
	Weekday   int    `gorm:"column:weekday;not null;index:idx_tenant_staff_weekday,unique" json:"weekday"`
	IsWorking bool   `gorm:"column:is_working;default:true" json:"is_working"`
	StartTime string `gorm:"column:start_time;size:5;default:'09:00'" json:"start_time"`
	EndTime   string `gorm:"column:end_time;size:5;default:'18:00'" json:"end_time"`

	Breaks []BreakWindow `gorm:"foreignKey:WorkingHoursID;constraint:OnDelete:CASCADE;" json:"breaks"`
}

func (WorkingHours) TableName() string {
	return "working_hours"
}

type BreakWindow struct {
	gorm.Model
	WorkingHoursID uint   `gorm:"column:working_hours_id;not null;index" json:"working_hours_id"`
	StartTime      string `gorm:"column:start_time;size:5;not null" json:"start_time"`
	EndTime        string `gorm:"column:end_time;size:5;not null" json:"end_time"`
}

func (BreakWindow) TableName() string {
	return "break_windows"
}

// DefaultWorkingHours is the fallback applied when a staff member has no
// record for a weekday: 09:00-18:00 with a 12:00-13:00 break.
func DefaultWorkingHours(tenantID, staffID uint, weekday int) WorkingHours {
	return WorkingHours{
		TenantID:  tenantID,
		StaffID:   staffID,
		Weekday:   weekday,
		IsWorking: true,
		StartTime: "09:00",
		EndTime:   "18:00",
		Breaks: []BreakWindow{
			{StartTime: "12:00", EndTime: "13:00"},
		},
	}
}
