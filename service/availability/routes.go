package availability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/kofiadu/salonbase-server/cmd/models"
	"github.com/kofiadu/salonbase-server/cmd/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type AvailabilityHandler struct {
	db *gorm.DB
}

func NewAvailabilityHandler(db *gorm.DB) *AvailabilityHandler {
	return &AvailabilityHandler{db: db}
}

func (h *AvailabilityHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/appointments/available-slots", utils.AuthMiddleware(h.GetAvailableSlots)).Methods("GET")
}

// GetAvailableSlots lists bookable start times for a date and service. With
// staff_id the response is a flat list; without it every active staff
// member's slots are returned keyed by staff id.
func (h *AvailabilityHandler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	dateStr := r.URL.Query().Get("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	serviceID := r.URL.Query().Get("service_id")
	if serviceID == "" {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "service_id is required")
		return
	}

	var service models.Service
	if err := h.db.Where("id = ? AND tenant_id = ? AND active = ?", serviceID, tenantID, true).
		First(&service).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Service not found")
		return
	}

	if staffIDStr := r.URL.Query().Get("staff_id"); staffIDStr != "" {
		staffID, err := strconv.ParseUint(staffIDStr, 10, 64)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid staff ID")
			return
		}

		var staff models.Staff
		if err := h.db.Where("id = ? AND tenant_id = ? AND active = ?", staffID, tenantID, true).
			First(&staff).Error; err != nil {
			utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Staff member not found")
			return
		}

		slots, err := SlotsForStaff(h.db, tenantID, uint(staffID), date, &service)
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error computing slots")
			return
		}

		utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"date":     dateStr,
			"staff_id": staffID,
			"slots":    slots,
		})
		return
	}

	var staffMembers []models.Staff
	if err := h.db.Where("tenant_id = ? AND active = ?", tenantID, true).Find(&staffMembers).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error retrieving staff")
		return
	}

	slotsByStaff := make(map[uint][]string, len(staffMembers))
	for _, staff := range staffMembers {
		slots, err := SlotsForStaff(h.db, tenantID, staff.ID, date, &service)
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error computing slots")
			return
		}
		slotsByStaff[staff.ID] = slots
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"date":           dateStr,
		"slots_by_staff": slotsByStaff,
	})
}
