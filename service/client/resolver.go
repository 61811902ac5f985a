package client

import (
	"errors"
	"time"

	"github.com/kofiadu/salonbase-server/cmd/models"
	"gorm.io/gorm"
)

// Loyalty points granted on first creation and on each repeat booking.
const (
	WelcomeBonusPoints = 10
	RepeatVisitPoints  = 5
)

// Input carries the raw client fields of a public booking payload.
type Input struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email,omitempty"`
	Notes       string `json:"notes,omitempty"`
	HairProfile string `json:"hair_profile,omitempty"`
	SkinProfile string `json:"skin_profile,omitempty"`
}

// Resolve finds or creates the tenant's client record for a public booking.
// Lookup is by exact email when one was supplied, otherwise by
// (firstName, lastName, phone). Matching is what makes repeat bookings by
// the same person idempotent: they merge into one row instead of
// duplicating it.
func Resolve(db *gorm.DB, tenantID uint, in Input) (*models.Client, error) {
	existing, err := lookup(db, tenantID, in)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return touchExisting(db, existing, in)
	}
	return createNew(db, tenantID, in)
}

// ResolveByEmail is the legacy-token variant: email is the only identity key
// and must be present.
func ResolveByEmail(db *gorm.DB, tenantID uint, in Input) (*models.Client, error) {
	if in.Email == "" {
		return nil, errors.New("email is required")
	}
	return Resolve(db, tenantID, in)
}

// usesNameKey reports whether resolution may fall back to the
// (firstName, lastName, phone) key: only when the payload carries no email.
// A supplied-but-unknown email is a new client even when name and phone
// collide with an existing row; merging there would overwrite the stored
// email of a different person.
func usesNameKey(in Input) bool {
	return in.Email == ""
}

func lookup(db *gorm.DB, tenantID uint, in Input) (*models.Client, error) {
	var found models.Client

	if !usesNameKey(in) {
		err := db.Where("tenant_id = ? AND email = ?", tenantID, in.Email).First(&found).Error
		if err == nil {
			return &found, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, nil
	}

	err := db.Where("tenant_id = ? AND first_name = ? AND last_name = ? AND phone = ?",
		tenantID, in.FirstName, in.LastName, in.Phone).First(&found).Error
	if err == nil {
		return &found, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return nil, nil
}

func touchExisting(db *gorm.DB, existing *models.Client, in Input) (*models.Client, error) {
	Merge(existing, in)
	existing.LoyaltyPoints += RepeatVisitPoints
	now := time.Now()
	existing.LastVisit = &now

	if err := db.Save(existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func createNew(db *gorm.DB, tenantID uint, in Input) (*models.Client, error) {
	now := time.Now()
	created := models.Client{
		TenantID:      tenantID,
		FirstName:     in.FirstName,
		LastName:      in.LastName,
		Phone:         in.Phone,
		Email:         in.Email,
		Notes:         in.Notes,
		HairProfile:   in.HairProfile,
		SkinProfile:   in.SkinProfile,
		Source:        models.SourceOnline,
		LoyaltyPoints: WelcomeBonusPoints,
		LastVisit:     &now,
		EmailOptIn:    true,
		SMSOptIn:      true,
	}
	if err := db.Create(&created).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// Merge copies supplied fields onto the record without ever overwriting a
// populated field with a blank one.
func Merge(dst *models.Client, in Input) {
	setIfFilled(&dst.FirstName, in.FirstName)
	setIfFilled(&dst.LastName, in.LastName)
	setIfFilled(&dst.Phone, in.Phone)
	setIfFilled(&dst.Email, in.Email)
	setIfFilled(&dst.Notes, in.Notes)
	setIfFilled(&dst.HairProfile, in.HairProfile)
	setIfFilled(&dst.SkinProfile, in.SkinProfile)
}

func setIfFilled(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
