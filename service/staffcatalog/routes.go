package staffcatalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kofiadu/salonbase-server/cmd/models"
	"github.com/kofiadu/salonbase-server/cmd/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type StaffHandler struct {
	db *gorm.DB
}

func NewStaffHandler(db *gorm.DB) *StaffHandler {
	return &StaffHandler{db: db}
}

func (h *StaffHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/staff", utils.AuthMiddleware(h.CreateStaff)).Methods("POST")
	router.HandleFunc("/staff", utils.AuthMiddleware(h.ListStaff)).Methods("GET")
	router.HandleFunc("/staff/{id}", utils.AuthMiddleware(h.GetStaff)).Methods("GET")
	router.HandleFunc("/staff/{id}", utils.AuthMiddleware(h.UpdateStaff)).Methods("PUT")
	router.HandleFunc("/staff/{id}", utils.AuthMiddleware(h.DeleteStaff)).Methods("DELETE")
	router.HandleFunc("/staff/{id}/working-hours", utils.AuthMiddleware(h.GetWorkingHours)).Methods("GET")
	router.HandleFunc("/staff/{id}/working-hours", utils.AuthMiddleware(h.UpdateWorkingHours)).Methods("PUT")
}

func (h *StaffHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	var staff models.Staff
	if err := json.NewDecoder(r.Body).Decode(&staff); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}
	if staff.FirstName == "" {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "First name is required")
		return
	}

	staff.ID = 0
	staff.TenantID = tenantID
	staff.Active = true
	if staff.Role == "" {
		staff.Role = "stylist"
	}

	if err := h.db.Create(&staff).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error creating staff member")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, staff)
}

func (h *StaffHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	query := h.db.Where("tenant_id = ?", tenantID)
	if r.URL.Query().Get("include_inactive") != "true" {
		query = query.Where("active = ?", true)
	}

	var staff []models.Staff
	if err := query.Order("first_name asc").Find(&staff).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error fetching staff")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"staff": staff})
}

func (h *StaffHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	staff, ok := h.findStaff(w, r, tenantID)
	if !ok {
		return
	}

	utils.WriteJSON(w, http.StatusOK, staff)
}

func (h *StaffHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	staff, ok := h.findStaff(w, r, tenantID)
	if !ok {
		return
	}

	var updateRequest struct {
		FirstName string `json:"first_name,omitempty"`
		LastName  string `json:"last_name,omitempty"`
		Email     string `json:"email,omitempty"`
		Phone     string `json:"phone,omitempty"`
		Role      string `json:"role,omitempty"`
		Active    *bool  `json:"active,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}

	if updateRequest.FirstName != "" {
		staff.FirstName = updateRequest.FirstName
	}
	if updateRequest.LastName != "" {
		staff.LastName = updateRequest.LastName
	}
	if updateRequest.Email != "" {
		staff.Email = updateRequest.Email
	}
	if updateRequest.Phone != "" {
		staff.Phone = updateRequest.Phone
	}
	if updateRequest.Role != "" {
		staff.Role = updateRequest.Role
	}
	if updateRequest.Active != nil {
		staff.Active = *updateRequest.Active
	}

	if err := h.db.Save(&staff).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error updating staff member")
		return
	}

	utils.WriteJSON(w, http.StatusOK, staff)
}

// DeleteStaff deactivates rather than removes, so past appointments keep a
// resolvable stylist reference.
func (h *StaffHandler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	staff, ok := h.findStaff(w, r, tenantID)
	if !ok {
		return
	}

	staff.Active = false
	if err := h.db.Save(&staff).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error deactivating staff member")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Staff member deactivated"})
}

func (h *StaffHandler) GetWorkingHours(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	staff, ok := h.findStaff(w, r, tenantID)
	if !ok {
		return
	}

	var hours []models.WorkingHours
	if err := h.db.Preload("Breaks").
		Where("tenant_id = ? AND staff_id = ?", staff.TenantID, staff.ID).
		Order("weekday asc").
		Find(&hours).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error fetching working hours")
		return
	}

	// Weekdays with no stored record fall back to the default week.
	stored := make(map[int]models.WorkingHours, len(hours))
	for _, wh := range hours {
		stored[wh.Weekday] = wh
	}
	week := make([]models.WorkingHours, 0, 7)
	for weekday := 0; weekday < 7; weekday++ {
		if wh, ok := stored[weekday]; ok {
			week = append(week, wh)
			continue
		}
		week = append(week, models.DefaultWorkingHours(staff.TenantID, staff.ID, weekday))
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"staff_id":      staff.ID,
		"working_hours": week,
	})
}

type workingDayRequest struct {
	Weekday   int    `json:"weekday"`
	IsWorking bool   `json:"is_working"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Breaks    []struct {
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	} `json:"breaks"`
}

func (h *StaffHandler) UpdateWorkingHours(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	staff, ok := h.findStaff(w, r, tenantID)
	if !ok {
		return
	}

	var updateRequest struct {
		WorkingHours []workingDayRequest `json:"working_hours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}
	if len(updateRequest.WorkingHours) == 0 {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "At least one weekday is required")
		return
	}

	for _, day := range updateRequest.WorkingHours {
		if msg := validateWorkingDay(day); msg != "" {
			utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, msg)
			return
		}
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		for _, day := range updateRequest.WorkingHours {
			var wh models.WorkingHours
			result := tx.Where("tenant_id = ? AND staff_id = ? AND weekday = ?",
				staff.TenantID, staff.ID, day.Weekday).First(&wh)
			if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
				return result.Error
			}

			wh.TenantID = staff.TenantID
			wh.StaffID = staff.ID
			wh.Weekday = day.Weekday
			wh.IsWorking = day.IsWorking
			wh.StartTime = day.StartTime
			wh.EndTime = day.EndTime
			if err := tx.Save(&wh).Error; err != nil {
				return err
			}

			if err := tx.Where("working_hours_id = ?", wh.ID).
				Delete(&models.BreakWindow{}).Error; err != nil {
				return err
			}
			for _, br := range day.Breaks {
				window := models.BreakWindow{
					WorkingHoursID: wh.ID,
					StartTime:      br.StartTime,
					EndTime:        br.EndTime,
				}
				if err := tx.Create(&window).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error updating working hours")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Working hours updated"})
}

func validateWorkingDay(day workingDayRequest) string {
	if day.Weekday < 0 || day.Weekday > 6 {
		return "Weekday must be between 0 (Sunday) and 6 (Saturday)"
	}
	if !day.IsWorking {
		return ""
	}

	start, err := utils.ParseClock(day.StartTime)
	if err != nil {
		return "Invalid start time, expected HH:MM"
	}
	end, err := utils.ParseClock(day.EndTime)
	if err != nil {
		return "Invalid end time, expected HH:MM"
	}
	if start >= end {
		return "Start time must be before end time"
	}

	for _, br := range day.Breaks {
		bs, err := utils.ParseClock(br.StartTime)
		if err != nil {
			return "Invalid break start time, expected HH:MM"
		}
		be, err := utils.ParseClock(br.EndTime)
		if err != nil {
			return "Invalid break end time, expected HH:MM"
		}
		if bs >= be {
			return "Break start must be before break end"
		}
		if bs < start || be > end {
			return "Breaks must fall within the working window"
		}
	}
	return ""
}

func (h *StaffHandler) findStaff(w http.ResponseWriter, r *http.Request, tenantID uint) (models.Staff, bool) {
	vars := mux.Vars(r)
	staffID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid staff ID")
		return models.Staff{}, false
	}

	var staff models.Staff
	if err := h.db.Where("id = ? AND tenant_id = ?", staffID, tenantID).First(&staff).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Staff member not found")
		return models.Staff{}, false
	}
	return staff, true
}
