package appointment

import (
	"time"

	"github.com/kofiadu/salonbase-server/cmd/models"
	"github.com/kofiadu/salonbase-server/cmd/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HasConflict reports whether the candidate [startTime, endTime) interval
// overlaps any of the given appointments. Pure over its inputs; cancelled
// rows and the excluded id must already be filtered out by the caller.
func HasConflict(appointments []models.Appointment, startTime, endTime string, excludeID uint) bool {
	for _, existing := range appointments {
		if excludeID != 0 && existing.ID == excludeID {
			continue
		}
		if intervalsOverlap(startTime, endTime, existing.StartTime, existing.EndTime) {
			return true
		}
	}
	return false
}

// intervalsOverlap applies s1 < e2 && s2 < e1 as its three covering cases:
// candidate starts inside existing, candidate ends inside existing, or
// candidate fully contains existing. Times are compared as minutes since
// midnight, never as raw text, so an unpadded value like "9:30" cannot
// defeat the check. A malformed time fails closed and reports a conflict.
func intervalsOverlap(s1, e1, s2, e2 string) bool {
	cs, err1 := utils.ParseClock(s1)
	ce, err2 := utils.ParseClock(e1)
	es, err3 := utils.ParseClock(s2)
	ee, err4 := utils.ParseClock(e2)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return true
	}
	startsInside := cs >= es && cs < ee
	endsInside := ce > es && ce <= ee
	contains := cs <= es && ce >= ee
	return startsInside || endsInside || contains
}

// LoadActiveForUpdate fetches the non-cancelled appointments for one
// tenant/staff/date inside the caller's transaction, locking the rows so a
// concurrent booking for the same staff and date must wait for the commit.
func LoadActiveForUpdate(tx *gorm.DB, tenantID, staffID uint, date time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND staff_id = ? AND date = ? AND status <> ?",
			tenantID, staffID, date, models.StatusCancelled).
		Find(&appointments).Error
	return appointments, err
}

// LoadActive is the read-only variant used outside booking transactions.
func LoadActive(db *gorm.DB, tenantID, staffID uint, date time.Time) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := db.Where("tenant_id = ? AND staff_id = ? AND date = ? AND status <> ?",
		tenantID, staffID, date, models.StatusCancelled).
		Find(&appointments).Error
	return appointments, err
}
