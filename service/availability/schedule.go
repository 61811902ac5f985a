package availability

import (
	"errors"
	"time"

	"github.com/kofiadu/salonbase-server/cmd/models"
	"gorm.io/gorm"
)

// SlotsForStaff recomputes the bookable start times for one staff member on
// one date. Fresh on every call, nothing memoized. The working-hours lookup
// is tenant-scoped so a numerically colliding staff id from another salon
// can never supply the schedule.
func SlotsForStaff(db *gorm.DB, tenantID, staffID uint, date time.Time, service *models.Service) ([]string, error) {
	var wh models.WorkingHours
	err := db.Preload("Breaks").
		Where("tenant_id = ? AND staff_id = ? AND weekday = ?", tenantID, staffID, int(date.Weekday())).
		First(&wh).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		wh = models.DefaultWorkingHours(tenantID, staffID, int(date.Weekday()))
	} else if err != nil {
		return nil, err
	}

	return slotsForSchedule(db, tenantID, staffID, date, wh, service)
}

// SlotsForOwner computes slots when the salon owner personally performs the
// service. Owner bookings carry the tenant id in the staff column and have
// no working-hours rows of their own; the default week applies
// unconditionally, so no staff schedule can leak into an owner listing.
func SlotsForOwner(db *gorm.DB, tenantID uint, date time.Time, service *models.Service) ([]string, error) {
	wh := models.DefaultWorkingHours(tenantID, tenantID, int(date.Weekday()))
	return slotsForSchedule(db, tenantID, tenantID, date, wh, service)
}

func slotsForSchedule(db *gorm.DB, tenantID, staffID uint, date time.Time, wh models.WorkingHours, service *models.Service) ([]string, error) {
	day, err := ScheduleFromWorkingHours(wh)
	if err != nil {
		return nil, err
	}

	var appointments []models.Appointment
	if err := db.Where("tenant_id = ? AND staff_id = ? AND date = ? AND status <> ?",
		tenantID, staffID, date, models.StatusCancelled).
		Find(&appointments).Error; err != nil {
		return nil, err
	}

	booked, err := BookedWindows(appointments)
	if err != nil {
		return nil, err
	}

	buf := Buffer{Before: service.BufferBefore, After: service.BufferAfter}
	return AvailableSlots(day, booked, service.Duration, buf), nil
}
