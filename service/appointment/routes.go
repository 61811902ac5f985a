package appointment

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kofiadu/salonbase-server/cmd/models"
	"github.com/kofiadu/salonbase-server/cmd/utils"
	"github.com/kofiadu/salonbase-server/service/notification"
	"github.com/kofiadu/salonbase-server/service/subscription"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type AppointmentHandler struct {
	db       *gorm.DB
	notifier *notification.Notifier
}

func NewAppointmentHandler(db *gorm.DB, notifier *notification.Notifier) *AppointmentHandler {
	return &AppointmentHandler{db: db, notifier: notifier}
}

func (h *AppointmentHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/appointments", utils.AuthMiddleware(h.CreateAppointment)).Methods("POST")
	router.HandleFunc("/appointments", utils.AuthMiddleware(h.GetAppointments)).Methods("GET")
	router.HandleFunc("/appointments/{id:[0-9]+}", utils.AuthMiddleware(h.GetAppointment)).Methods("GET")
	router.HandleFunc("/appointments/{id:[0-9]+}", utils.AuthMiddleware(h.UpdateAppointment)).Methods("PUT")
	router.HandleFunc("/appointments/{id:[0-9]+}/status", utils.AuthMiddleware(h.TransitionStatus)).Methods("PATCH")
	router.HandleFunc("/appointments/{id:[0-9]+}/rating", utils.AuthMiddleware(h.RateAppointment)).Methods("POST")
}

// CreateAppointment is the staff-authenticated intake variant: the caller
// supplies existing client/service/staff ids directly.
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	var bookingRequest struct {
		ClientID  uint   `json:"client_id"`
		ServiceID uint   `json:"service_id"`
		StaffID   uint   `json:"staff_id"`
		Date      string `json:"date"`
		StartTime string `json:"start_time"`
		Notes     string `json:"notes,omitempty"`
		Source    string `json:"source,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&bookingRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Salon not found")
		return
	}

	// Plan ceiling is checked before any other validation touches the store.
	quota, err := subscription.CheckAppointmentQuota(h.db, &tenant, time.Now())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error checking plan limits")
		return
	}
	if !quota.Allowed {
		utils.WriteError(w, http.StatusForbidden, utils.CodeQuotaExceeded,
			fmt.Sprintf("Appointment limit reached (%d of %d this month)", quota.Current, quota.Limit))
		return
	}

	// A booking must always name a staff member.
	if bookingRequest.StaffID == 0 {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "A staff member must be selected")
		return
	}

	var staff models.Staff
	if err := h.db.Where("id = ? AND tenant_id = ? AND active = ?", bookingRequest.StaffID, tenantID, true).
		First(&staff).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Staff member not found")
		return
	}

	var service models.Service
	if err := h.db.Where("id = ? AND tenant_id = ? AND active = ?", bookingRequest.ServiceID, tenantID, true).
		First(&service).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Service not found")
		return
	}

	var bookingClient models.Client
	if err := h.db.Where("id = ? AND tenant_id = ?", bookingRequest.ClientID, tenantID).
		First(&bookingClient).Error; err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid client")
		return
	}

	date, err := time.Parse("2006-01-02", bookingRequest.Date)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid date format. Use YYYY-MM-DD")
		return
	}
	if _, err := utils.ParseClock(bookingRequest.StartTime); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid start time. Use HH:MM")
		return
	}

	source := bookingRequest.Source
	if source == "" {
		source = models.SourceAdmin
	}

	appt, err := Create(h.db, CreateContext{
		Tenant:    &tenant,
		Service:   &service,
		StaffID:   bookingRequest.StaffID,
		Client:    &bookingClient,
		Date:      date,
		StartTime: bookingRequest.StartTime,
		Notes:     bookingRequest.Notes,
		Source:    source,
	})
	if err != nil {
		writeCreateError(w, err)
		return
	}

	h.notifier.Dispatch(notification.TemplateBookingConfirmed, appt, &tenant)

	utils.WriteJSON(w, http.StatusCreated, appt)
}

func writeCreateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSlotUnavailable):
		utils.WriteError(w, http.StatusBadRequest, utils.CodeConflict, "The requested time slot is not available")
	case IsDuplicateEntry(err):
		utils.WriteError(w, http.StatusConflict, utils.CodeDuplicateEntry, "Duplicate entry")
	default:
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error creating appointment")
	}
}

func (h *AppointmentHandler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 100

	query := h.db.Model(&models.Appointment{}).Where("tenant_id = ?", tenantID)

	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if date := r.URL.Query().Get("date"); date != "" {
		query = query.Where("date = ?", date)
	}
	if staffID := r.URL.Query().Get("staff_id"); staffID != "" {
		query = query.Where("staff_id = ?", staffID)
	}

	var total int64
	query.Count(&total)

	var appointments []models.Appointment
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("date DESC, start_time DESC").Find(&appointments).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error retrieving appointments")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"appointments": appointments,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
		"total_pages":  (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid appointment ID")
		return
	}

	var appt models.Appointment
	if err := h.db.Preload("Client").Preload("Modifications").Preload("Reminders").
		Where("id = ? AND tenant_id = ?", appointmentID, tenantID).First(&appt).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Appointment not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, appt)
}

// UpdateAppointment reschedules date, start time and/or staff. It is an
// update of the existing row, never a new booking.
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid appointment ID")
		return
	}

	var updateRequest struct {
		Date      string `json:"date,omitempty"`
		StartTime string `json:"start_time,omitempty"`
		StaffID   uint   `json:"staff_id,omitempty"`
		Notes     string `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}

	var appt models.Appointment
	if err := h.db.Where("id = ? AND tenant_id = ?", appointmentID, tenantID).First(&appt).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Appointment not found")
		return
	}

	if appt.Status == models.StatusCancelled || appt.Status == models.StatusCompleted ||
		appt.Status == models.StatusNoShow {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeInvalidTransition,
			fmt.Sprintf("Cannot reschedule a %s appointment", appt.Status))
		return
	}

	newDate := appt.Date
	if updateRequest.Date != "" {
		newDate, err = time.Parse("2006-01-02", updateRequest.Date)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid date format. Use YYYY-MM-DD")
			return
		}
	}

	newStart := appt.StartTime
	if updateRequest.StartTime != "" {
		if _, err := utils.ParseClock(updateRequest.StartTime); err != nil {
			utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid start time. Use HH:MM")
			return
		}
		newStart = updateRequest.StartTime
	}

	newStaffID := appt.StaffID
	if updateRequest.StaffID != 0 {
		var staff models.Staff
		if err := h.db.Where("id = ? AND tenant_id = ? AND active = ?", updateRequest.StaffID, tenantID, true).
			First(&staff).Error; err != nil {
			utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Staff member not found")
			return
		}
		newStaffID = updateRequest.StaffID
	}

	if updateRequest.Notes != "" {
		appt.Notes = updateRequest.Notes
	}

	changes := fmt.Sprintf("rescheduled to %s %s (staff %d)", newDate.Format("2006-01-02"), newStart, newStaffID)
	if err := Reschedule(h.db, &appt, ResolveDuration(h.db, &appt), newDate, newStart, newStaffID,
		models.ActorStaff, changes); err != nil {
		writeCreateError(w, err)
		return
	}

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err == nil {
		h.notifier.Dispatch(notification.TemplateBookingRescheduled, &appt, &tenant)
	}

	utils.WriteJSON(w, http.StatusOK, appt)
}

// TransitionStatus drives the lifecycle state machine.
func (h *AppointmentHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid appointment ID")
		return
	}

	var transitionRequest struct {
		Status string `json:"status"`
		Reason string `json:"reason,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&transitionRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}

	var appt models.Appointment
	if err := h.db.Where("id = ? AND tenant_id = ?", appointmentID, tenantID).First(&appt).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Appointment not found")
		return
	}

	previous := appt.Status
	if transitionRequest.Status == models.StatusCancelled {
		err = ApplyCancellation(&appt, transitionRequest.Reason, models.ActorStaff, time.Now())
	} else {
		err = ApplyTransition(&appt, transitionRequest.Status)
	}
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeInvalidTransition, err.Error())
		return
	}

	record := models.ModificationRecord{
		AppointmentID: appt.ID,
		Actor:         models.ActorStaff,
		Changes:       fmt.Sprintf("status: %s -> %s", previous, appt.Status),
		Reason:        transitionRequest.Reason,
		ChangedAt:     time.Now(),
	}

	tx := h.db.Begin()
	if err := tx.Save(&appt).Error; err != nil {
		tx.Rollback()
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error updating appointment")
		return
	}
	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error recording change")
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error completing update")
		return
	}

	if appt.Status == models.StatusCancelled {
		var tenant models.Tenant
		if err := h.db.First(&tenant, tenantID).Error; err == nil {
			h.notifier.Dispatch(notification.TemplateBookingCancelled, &appt, &tenant)
		}
	}

	utils.WriteJSON(w, http.StatusOK, appt)
}

// RateAppointment records a 1-5 score once the visit is completed.
func (h *AppointmentHandler) RateAppointment(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid appointment ID")
		return
	}

	var ratingRequest struct {
		Score   int    `json:"score"`
		Comment string `json:"comment,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&ratingRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}
	if ratingRequest.Score < 1 || ratingRequest.Score > 5 {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Score must be between 1 and 5")
		return
	}

	var appt models.Appointment
	if err := h.db.Where("id = ? AND tenant_id = ?", appointmentID, tenantID).First(&appt).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Appointment not found")
		return
	}

	if appt.Status != models.StatusCompleted {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Only completed appointments can be rated")
		return
	}

	now := time.Now()
	appt.RatingScore = &ratingRequest.Score
	appt.RatingComment = ratingRequest.Comment
	appt.RatedAt = &now

	if err := h.db.Save(&appt).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error saving rating")
		return
	}

	utils.WriteJSON(w, http.StatusOK, appt)
}
