package models

import (
	"time"

	"gorm.io/gorm"
)

type Appointment struct {
	gorm.Model
	TenantID uint `gorm:"column:tenant_id;not null;index:idx_appt_tenant_staff_date" json:"tenant_id"`

	// StaffID carries no foreign key constraint: owner-as-stylist bookings
	// store the tenant's own id here.
	StaffID uint `gorm:"column:staff_id;not null;index:idx_appt_tenant_staff_date" json:"staff_id"`

	// Service records may live in a loosely-typed external store, so this is
	// a plain identifier rather than a strict foreign key.
	ServiceID   string `gorm:"column:service_id;size:64;not null" json:"service_id"`
	ServiceName string `gorm:"column:service_name;size:255" json:"service_name"`

	Date      time.Time `gorm:"column:date;not null;index:idx_appt_tenant_staff_date" json:"date"`
	StartTime string    `gorm:"column:start_time;size:5;not null" json:"start_time"`
	EndTime   string    `gorm:"column:end_time;size:5;not null" json:"end_time"`
	Duration  int       `gorm:"column:duration;not null" json:"duration"`

	Price    float64 `gorm:"column:price;not null" json:"price"`
	Currency string  `gorm:"column:currency;size:3;default:'EUR'" json:"currency"`

	DepositRequired bool       `gorm:"column:deposit_required;default:false" json:"deposit_required"`
	DepositAmount   float64    `gorm:"column:deposit_amount;default:0" json:"deposit_amount"`
	DepositPaid     bool       `gorm:"column:deposit_paid;default:false" json:"deposit_paid"`
	DepositPaidAt   *time.Time `gorm:"column:deposit_paid_at" json:"deposit_paid_at,omitempty"`

	// Client contact details as they were at booking time. Write-once:
	// later edits to the live client record never propagate here.
	ClientID        uint   `gorm:"column:client_id;index" json:"client_id"`
	ClientFirstName string `gorm:"column:client_first_name;size:255" json:"client_first_name"`
	ClientLastName  string `gorm:"column:client_last_name;size:255" json:"client_last_name"`
	ClientPhone     string `gorm:"column:client_phone;size:20" json:"client_phone"`
	ClientEmail     string `gorm:"column:client_email;size:255" json:"client_email"`

	Status string `gorm:"column:status;size:20;not null;default:'scheduled'" json:"status"`
	Source string `gorm:"column:source;size:20;default:'online'" json:"source"`
	Notes  string `gorm:"column:notes;type:text" json:"notes,omitempty"`

	ConfirmationToken string `gorm:"column:confirmation_token;size:64;not null;uniqueIndex" json:"-"`
	ModificationToken string `gorm:"column:modification_token;size:64;not null;uniqueIndex" json:"-"`
	PublicToken       string `gorm:"column:public_token;size:64;not null;uniqueIndex" json:"-"`

	CancellationReason string     `gorm:"column:cancellation_reason;type:text" json:"cancellation_reason,omitempty"`
	CancelledBy        string     `gorm:"column:cancelled_by;size:20" json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`

	RatingScore   *int       `gorm:"column:rating_score" json:"rating_score,omitempty"`
	RatingComment string     `gorm:"column:rating_comment;type:text" json:"rating_comment,omitempty"`
	RatedAt       *time.Time `gorm:"column:rated_at" json:"rated_at,omitempty"`

	Modifications []ModificationRecord `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE;" json:"modifications,omitempty"`
	Reminders     []ReminderRecord     `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE;" json:"reminders,omitempty"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// ModificationRecord is one entry of an appointment's audit trail.
type ModificationRecord struct {
	gorm.Model
	AppointmentID uint      `gorm:"column:appointment_id;not null;index" json:"appointment_id"`
	Actor         string    `gorm:"column:actor;size:20;not null" json:"actor"`
	Changes       string    `gorm:"column:changes;type:text;not null" json:"changes"`
	Reason        string    `gorm:"column:reason;type:text" json:"reason,omitempty"`
	ChangedAt     time.Time `gorm:"column:changed_at;not null" json:"changed_at"`
}

func (ModificationRecord) TableName() string {
	return "appointment_modifications"
}

type ReminderRecord struct {
	gorm.Model
	AppointmentID uint      `gorm:"column:appointment_id;not null;index" json:"appointment_id"`
	Channel       string    `gorm:"column:channel;size:20;not null" json:"channel"`
	SentAt        time.Time `gorm:"column:sent_at;not null" json:"sent_at"`
	Status        string    `gorm:"column:status;size:20;not null" json:"status"`
}

func (ReminderRecord) TableName() string {
	return "appointment_reminders"
}
