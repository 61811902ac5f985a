package appointment

import (
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/kofiadu/salonbase-server/cmd/models"
	"github.com/kofiadu/salonbase-server/cmd/utils"
	"gorm.io/gorm"
)

// CreateContext is the resolved input of the canonical creation path. The
// three intake variants (internal, legacy-token, slug) each produce one of
// these and converge here.
type CreateContext struct {
	Tenant  *models.Tenant
	Service *models.Service
	StaffID uint
	Client  *models.Client

	Date      time.Time
	StartTime string
	Notes     string
	Source    string
}

// Create runs the conflict check and the insert inside one transaction,
// serialised on the tenant/staff/date key, so two concurrent requests for
// the same slot cannot both pass the check. Start and end times are stored
// in canonical zero-padded form regardless of how the request spelled them.
func Create(db *gorm.DB, ctx CreateContext) (*models.Appointment, error) {
	startMinutes, err := utils.ParseClock(ctx.StartTime)
	if err != nil {
		return nil, err
	}
	startTime := utils.FormatClock(startMinutes)
	endTime := utils.FormatClock(startMinutes + ctx.Service.Duration)

	confirmationToken, err := utils.GenerateToken()
	if err != nil {
		return nil, err
	}
	modificationToken, err := utils.GenerateToken()
	if err != nil {
		return nil, err
	}

	appt := models.Appointment{
		TenantID:        ctx.Tenant.ID,
		StaffID:         ctx.StaffID,
		ServiceID:       serviceRef(ctx.Service),
		ServiceName:     ctx.Service.Name,
		Date:            ctx.Date,
		StartTime:       startTime,
		EndTime:         endTime,
		Duration:        ctx.Service.Duration,
		Price:           ctx.Service.Price,
		Currency:        ctx.Service.Currency,
		DepositRequired: ctx.Service.DepositRequired,
		DepositAmount:   ctx.Service.DepositAmount,

		ClientID:        ctx.Client.ID,
		ClientFirstName: ctx.Client.FirstName,
		ClientLastName:  ctx.Client.LastName,
		ClientPhone:     ctx.Client.Phone,
		ClientEmail:     ctx.Client.Email,

		Status: models.StatusScheduled,
		Source: ctx.Source,
		Notes:  ctx.Notes,

		ConfirmationToken: confirmationToken,
		ModificationToken: modificationToken,
		PublicToken:       utils.GeneratePublicToken(),
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}

	if err := lockSlot(tx, ctx.Tenant.ID, ctx.StaffID, ctx.Date); err != nil {
		tx.Rollback()
		return nil, err
	}

	existing, err := LoadActiveForUpdate(tx, ctx.Tenant.ID, ctx.StaffID, ctx.Date)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if HasConflict(existing, startTime, endTime, 0) {
		tx.Rollback()
		return nil, ErrSlotUnavailable
	}

	if err := tx.Create(&appt).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return &appt, nil
}

// Reschedule updates date/time/staff on an existing appointment, re-running
// the conflict check with the appointment's own id excluded, and appends a
// modification-history entry before persisting.
func Reschedule(db *gorm.DB, appt *models.Appointment, duration int, newDate time.Time, newStart string, newStaffID uint, actor, changes string) error {
	startMinutes, err := utils.ParseClock(newStart)
	if err != nil {
		return err
	}
	newStart = utils.FormatClock(startMinutes)
	endTime := utils.FormatClock(startMinutes + duration)

	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	if err := lockSlot(tx, appt.TenantID, newStaffID, newDate); err != nil {
		tx.Rollback()
		return err
	}

	existing, err := LoadActiveForUpdate(tx, appt.TenantID, newStaffID, newDate)
	if err != nil {
		tx.Rollback()
		return err
	}

	if HasConflict(existing, newStart, endTime, appt.ID) {
		tx.Rollback()
		return ErrSlotUnavailable
	}

	appt.Date = newDate
	appt.StartTime = newStart
	appt.EndTime = endTime
	appt.StaffID = newStaffID
	appt.Duration = duration

	record := models.ModificationRecord{
		AppointmentID: appt.ID,
		Actor:         actor,
		Changes:       changes,
		ChangedAt:     time.Now(),
	}

	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Save(appt).Error; err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// slotLockKey derives the advisory-lock key serialising bookings for one
// tenant/staff/date. Key collisions between unrelated triples only widen the
// serialisation, never weaken it.
func slotLockKey(tenantID, staffID uint, date time.Time) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%d:%s", tenantID, staffID, date.Format("2006-01-02"))
	return int64(h.Sum64())
}

// lockSlot takes a transaction-scoped advisory lock on the tenant/staff/date
// key. Row locks alone cannot serialise two first bookings on an empty day,
// since there are no rows to lock yet.
func lockSlot(tx *gorm.DB, tenantID, staffID uint, date time.Time) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(?)", slotLockKey(tenantID, staffID, date)).Error
}

// ResolveDuration returns the live duration of the appointment's service,
// falling back to the stored duration when the loosely-typed service
// reference no longer resolves.
func ResolveDuration(db *gorm.DB, appt *models.Appointment) int {
	var service models.Service
	if err := db.Where("id = ? AND tenant_id = ?", appt.ServiceID, appt.TenantID).
		First(&service).Error; err == nil {
		return service.Duration
	}
	return appt.Duration
}

func serviceRef(service *models.Service) string {
	return strconv.FormatUint(uint64(service.ID), 10)
}

// IsDuplicateEntry distinguishes unique-index violations (token or slug
// collisions) from business-level conflicts.
func IsDuplicateEntry(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
