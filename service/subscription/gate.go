package subscription

import (
	"time"

	"github.com/kofiadu/salonbase-server/cmd/models"
	"gorm.io/gorm"
)

// Monthly appointment ceilings per plan. -1 means unlimited.
var planLimits = map[string]int64{
	"starter":   50,
	"pro":       500,
	"unlimited": -1,
}

const defaultLimit int64 = 50

type QuotaResult struct {
	Allowed bool  `json:"allowed"`
	Current int64 `json:"current"`
	Limit   int64 `json:"limit"`
}

func LimitForPlan(plan string) int64 {
	if limit, ok := planLimits[plan]; ok {
		return limit
	}
	return defaultLimit
}

// CheckAppointmentQuota counts the tenant's appointments booked for the
// current calendar month against the plan ceiling. Consulted before
// creation on the staff-authenticated path.
func CheckAppointmentQuota(db *gorm.DB, tenant *models.Tenant, now time.Time) (QuotaResult, error) {
	limit := LimitForPlan(tenant.Plan)

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var current int64
	err := db.Model(&models.Appointment{}).
		Where("tenant_id = ? AND date >= ? AND date < ?", tenant.ID, monthStart, monthEnd).
		Count(&current).Error
	if err != nil {
		return QuotaResult{}, err
	}

	allowed := limit < 0 || current < limit
	return QuotaResult{Allowed: allowed, Current: current, Limit: limit}, nil
}
