package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kofiadu/salonbase-server/cmd/models"
	"github.com/kofiadu/salonbase-server/cmd/utils"
	"github.com/kofiadu/salonbase-server/service/appointment"
	"github.com/kofiadu/salonbase-server/service/availability"
	"github.com/kofiadu/salonbase-server/service/client"
	"github.com/kofiadu/salonbase-server/service/notification"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// BookingHandler serves the unauthenticated channels: the legacy
// salon-token variant, the slug-based variant and token-scoped
// self-service. Lower trust, same lifecycle and conflict rules as the
// authenticated path.
type BookingHandler struct {
	db       *gorm.DB
	notifier *notification.Notifier
}

func NewBookingHandler(db *gorm.DB, notifier *notification.Notifier) *BookingHandler {
	return &BookingHandler{db: db, notifier: notifier}
}

func (h *BookingHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/public/bookings", h.CreateLegacyBooking).Methods("POST")
	router.HandleFunc("/public/salons/{slug}/services", h.GetSalonServices).Methods("GET")
	router.HandleFunc("/public/salons/{slug}/staff", h.GetSalonStaff).Methods("GET")
	router.HandleFunc("/public/salons/{slug}/available-slots", h.GetSalonSlots).Methods("GET")
	router.HandleFunc("/public/salons/{slug}/bookings", h.CreateSlugBooking).Methods("POST")
	router.HandleFunc("/public/appointments/{token}", h.GetByToken).Methods("GET")
	router.HandleFunc("/public/appointments/{token}", h.RescheduleByToken).Methods("PATCH")
	router.HandleFunc("/public/appointments/{token}/cancel", h.CancelByToken).Methods("POST")
}

type publicBookingRequest struct {
	SalonToken string       `json:"salon_token,omitempty"`
	ServiceID  uint         `json:"service_id"`
	StylistID  string       `json:"stylist_id"`
	Date       string       `json:"date"`
	StartTime  string       `json:"start_time"`
	Notes      string       `json:"notes,omitempty"`
	Client     client.Input `json:"client"`
}

// CreateLegacyBooking resolves the salon through its opaque access token.
// Clients on this channel are matched by email only.
func (h *BookingHandler) CreateLegacyBooking(w http.ResponseWriter, r *http.Request) {
	var bookingRequest publicBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&bookingRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}

	accessToken := r.Header.Get("X-Salon-Token")
	if accessToken == "" {
		accessToken = bookingRequest.SalonToken
	}
	if accessToken == "" {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Salon access token is required")
		return
	}

	var tenant models.Tenant
	if err := h.db.Where("access_token = ? AND active = ?", accessToken, true).First(&tenant).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Salon not found")
		return
	}

	if bookingRequest.Client.Email == "" {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Client email is required")
		return
	}

	h.createPublic(w, &tenant, bookingRequest, true)
}

// CreateSlugBooking resolves the salon by URL slug and applies the full
// client-resolver semantics, including the owner-as-stylist pseudo id.
func (h *BookingHandler) CreateSlugBooking(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.salonBySlug(w, r)
	if !ok {
		return
	}

	var bookingRequest publicBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&bookingRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}

	h.createPublic(w, tenant, bookingRequest, false)
}

// createPublic is the shared tail of both public variants; from here on the
// canonical creation path applies.
func (h *BookingHandler) createPublic(w http.ResponseWriter, tenant *models.Tenant, bookingRequest publicBookingRequest, emailOnly bool) {
	// A booking must always name a staff member, before anything else.
	if bookingRequest.StylistID == "" {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "A stylist must be selected")
		return
	}

	staffID, _, err := h.resolveStylist(tenant, bookingRequest.StylistID)
	if err != nil {
		writeStylistError(w, err)
		return
	}

	var service models.Service
	if err := h.db.Where("id = ? AND tenant_id = ? AND active = ?", bookingRequest.ServiceID, tenant.ID, true).
		First(&service).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Service not found")
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
	if bookingRequest.Client.FirstName == "" {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Client first name is required")
		return
	}

	var bookingClient *models.Client
	if emailOnly {
		bookingClient, err = client.ResolveByEmail(h.db, tenant.ID, bookingRequest.Client)
	} else {
		bookingClient, err = client.Resolve(h.db, tenant.ID, bookingRequest.Client)
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error resolving client")
		return
	}

	appt, err := appointment.Create(h.db, appointment.CreateContext{
		Tenant:    tenant,
		Service:   &service,
		StaffID:   staffID,
		Client:    bookingClient,
		Date:      date,
		StartTime: bookingRequest.StartTime,
		Notes:     bookingRequest.Notes,
		Source:    models.SourceOnline,
	})
	if err != nil {
		switch {
		case errors.Is(err, appointment.ErrSlotUnavailable):
			utils.WriteError(w, http.StatusBadRequest, utils.CodeConflict, "The requested time slot is not available")
		case appointment.IsDuplicateEntry(err):
			utils.WriteError(w, http.StatusConflict, utils.CodeDuplicateEntry, "Duplicate entry")
		default:
			utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error creating booking")
		}
		return
	}

	h.notifier.Dispatch(notification.TemplateBookingConfirmed, appt, tenant)

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"appointment": appointmentSummary(appt),
		"client": map[string]interface{}{
			"first_name":     bookingClient.FirstName,
			"last_name":      bookingClient.LastName,
			"loyalty_points": bookingClient.LoyaltyPoints,
		},
		"modification_token": appt.ModificationToken,
	})
}

var (
	errOwnerMismatch   = errors.New("owner id does not match this salon")
	errStylistNotFound = errors.New("stylist not found")
)

// resolveStylist unwraps the owner-as-stylist pseudo id or verifies a real
// staff reference. Owner bookings carry the tenant's own id as the
// effective staff reference; the returned flag keeps owner schedules out of
// the staff working-hours namespace.
func (h *BookingHandler) resolveStylist(tenant *models.Tenant, raw string) (uint, bool, error) {
	ownerID, isOwner, err := ParseOwnerStylistID(raw)
	if err != nil {
		return 0, false, err
	}
	if isOwner {
		if ownerID != tenant.ID {
			return 0, false, errOwnerMismatch
		}
		return tenant.ID, true, nil
	}

	var staff models.Staff
	if err := h.db.Where("id = ? AND tenant_id = ? AND active = ?", ownerID, tenant.ID, true).
		First(&staff).Error; err != nil {
		return 0, false, errStylistNotFound
	}
	return staff.ID, false, nil
}

func writeStylistError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errOwnerMismatch):
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid owner id")
	case errors.Is(err, errStylistNotFound):
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Stylist not found")
	default:
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid stylist id")
	}
}

func (h *BookingHandler) salonBySlug(w http.ResponseWriter, r *http.Request) (*models.Tenant, bool) {
	vars := mux.Vars(r)
	var tenant models.Tenant
	if err := h.db.Where("slug = ? AND active = ?", vars["slug"], true).First(&tenant).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Salon not found")
		return nil, false
	}
	return &tenant, true
}

func (h *BookingHandler) GetSalonServices(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.salonBySlug(w, r)
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.Where("tenant_id = ? AND active = ?", tenant.ID, true).
		Order("name ASC").Find(&services).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error retrieving services")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"salon":    tenant.Name,
		"services": services,
	})
}

func (h *BookingHandler) GetSalonStaff(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.salonBySlug(w, r)
	if !ok {
		return
	}

	var staffMembers []models.Staff
	if err := h.db.Where("tenant_id = ? AND active = ?", tenant.ID, true).
		Order("first_name ASC").Find(&staffMembers).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error retrieving staff")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"salon": tenant.Name,
		"staff": staffMembers,
	})
}

func (h *BookingHandler) GetSalonSlots(w http.ResponseWriter, r *http.Request) {
	tenant, ok := h.salonBySlug(w, r)
	if !ok {
		return
	}

	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	var service models.Service
	if err := h.db.Where("id = ? AND tenant_id = ? AND active = ?",
		r.URL.Query().Get("service_id"), tenant.ID, true).First(&service).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Service not found")
		return
	}

	if stylistID := r.URL.Query().Get("stylist_id"); stylistID != "" {
		staffID, isOwner, err := h.resolveStylist(tenant, stylistID)
		if err != nil {
			writeStylistError(w, err)
			return
		}

		var slots []string
		if isOwner {
			slots, err = availability.SlotsForOwner(h.db, tenant.ID, date, &service)
		} else {
			slots, err = availability.SlotsForStaff(h.db, tenant.ID, staffID, date, &service)
		}
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error computing slots")
			return
		}
		utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"date":  r.URL.Query().Get("date"),
			"slots": slots,
		})
		return
	}

	var staffMembers []models.Staff
	if err := h.db.Where("tenant_id = ? AND active = ?", tenant.ID, true).Find(&staffMembers).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error retrieving staff")
		return
	}

	slotsByStaff := make(map[uint][]string, len(staffMembers))
	for _, staff := range staffMembers {
		slots, err := availability.SlotsForStaff(h.db, tenant.ID, staff.ID, date, &service)
		if err != nil {
			utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error computing slots")
			return
		}
		slotsByStaff[staff.ID] = slots
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"date":           r.URL.Query().Get("date"),
		"slots_by_staff": slotsByStaff,
	})
}

// GetByToken resolves an appointment exclusively by its modification token.
// Internal identifiers never enter the public surface.
func (h *BookingHandler) GetByToken(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var appt models.Appointment
	if err := h.db.Where("modification_token = ?", vars["token"]).First(&appt).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Appointment not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"appointment": appointmentSummary(&appt),
		"can_modify":  appointment.CanBeModified(&appt, time.Now()),
	})
}

// CancelByToken cancels through the confirmation token.
func (h *BookingHandler) CancelByToken(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var cancelRequest struct {
		Reason string `json:"reason,omitempty"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&cancelRequest)
	}

	var appt models.Appointment
	if err := h.db.Where("confirmation_token = ?", vars["token"]).First(&appt).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Appointment not found")
		return
	}

	if !appointment.CanBeModified(&appt, time.Now()) {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Appointment not found or already finalised")
		return
	}

	if err := appointment.ApplyCancellation(&appt, cancelRequest.Reason, models.ActorClient, time.Now()); err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Appointment not found or already finalised")
		return
	}

	record := models.ModificationRecord{
		AppointmentID: appt.ID,
		Actor:         models.ActorClient,
		Changes:       "cancelled via confirmation token",
		Reason:        cancelRequest.Reason,
		ChangedAt:     time.Now(),
	}

	tx := h.db.Begin()
	if err := tx.Save(&appt).Error; err != nil {
		tx.Rollback()
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error cancelling appointment")
		return
	}
	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error recording change")
		return
	}
	if err := tx.Commit().Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error completing cancellation")
		return
	}

	var tenant models.Tenant
	if err := h.db.First(&tenant, appt.TenantID).Error; err == nil {
		h.notifier.Dispatch(notification.TemplateBookingCancelled, &appt, &tenant)
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Appointment cancelled successfully",
	})
}

// RescheduleByToken lets the client move their own appointment through the
// modification token.
func (h *BookingHandler) RescheduleByToken(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var rescheduleRequest struct {
		Date      string `json:"date,omitempty"`
		StartTime string `json:"start_time,omitempty"`
		StylistID string `json:"stylist_id,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&rescheduleRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}

	var appt models.Appointment
	if err := h.db.Where("modification_token = ?", vars["token"]).First(&appt).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Appointment not found")
		return
	}

	if !appointment.CanBeModified(&appt, time.Now()) {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Appointment can no longer be modified")
		return
	}

	var tenant models.Tenant
	if err := h.db.First(&tenant, appt.TenantID).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Salon not found")
		return
	}

	newDate := appt.Date
	var err error
	if rescheduleRequest.Date != "" {
		newDate, err = time.Parse("2006-01-02", rescheduleRequest.Date)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid date format. Use YYYY-MM-DD")
			return
		}
	}

	newStart := appt.StartTime
	if rescheduleRequest.StartTime != "" {
		if _, err := utils.ParseClock(rescheduleRequest.StartTime); err != nil {
			utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid start time. Use HH:MM")
			return
		}
		newStart = rescheduleRequest.StartTime
	}

	newStaffID := appt.StaffID
	if rescheduleRequest.StylistID != "" {
		newStaffID, _, err = h.resolveStylist(&tenant, rescheduleRequest.StylistID)
		if err != nil {
			writeStylistError(w, err)
			return
		}
	}

	changes := fmt.Sprintf("rescheduled to %s %s", newDate.Format("2006-01-02"), newStart)
	if err := appointment.Reschedule(h.db, &appt, appointment.ResolveDuration(h.db, &appt), newDate, newStart, newStaffID,
		models.ActorClient, changes); err != nil {
		if errors.Is(err, appointment.ErrSlotUnavailable) {
			utils.WriteError(w, http.StatusBadRequest, utils.CodeConflict, "The requested time slot is not available")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error rescheduling appointment")
		return
	}

	h.notifier.Dispatch(notification.TemplateBookingRescheduled, &appt, &tenant)

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"appointment": appointmentSummary(&appt),
		"can_modify":  appointment.CanBeModified(&appt, time.Now()),
	})
}

// appointmentSummary is the trimmed public view: no tenant, client or
// internal appointment identifiers.
func appointmentSummary(appt *models.Appointment) map[string]interface{} {
	return map[string]interface{}{
		"date":               appt.Date.Format("2006-01-02"),
		"start_time":         appt.StartTime,
		"end_time":           appt.EndTime,
		"duration":           appt.Duration,
		"service_id":         appt.ServiceID,
		"service_name":       appt.ServiceName,
		"stylist_id":         appt.StaffID,
		"status":             appt.Status,
		"price":              appt.Price,
		"currency":           appt.Currency,
		"confirmation_token": appt.ConfirmationToken,
	}
}
