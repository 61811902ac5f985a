package servicecatalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kofiadu/salonbase-server/cmd/models"
	"github.com/kofiadu/salonbase-server/cmd/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

func (h *ServiceHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/services", utils.AuthMiddleware(h.CreateService)).Methods("POST")
	router.HandleFunc("/services", utils.AuthMiddleware(h.ListServices)).Methods("GET")
	router.HandleFunc("/services/{id}", utils.AuthMiddleware(h.GetService)).Methods("GET")
	router.HandleFunc("/services/{id}", utils.AuthMiddleware(h.UpdateService)).Methods("PUT")
	router.HandleFunc("/services/{id}", utils.AuthMiddleware(h.DeleteService)).Methods("DELETE")
}

func (h *ServiceHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	var service models.Service
	if err := json.NewDecoder(r.Body).Decode(&service); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}
	if msg := validateService(service); msg != "" {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, msg)
		return
	}

	service.ID = 0
	service.TenantID = tenantID
	service.Active = true
	if service.Currency == "" {
		service.Currency = "EUR"
	}

	if err := h.db.Create(&service).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error creating service")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, service)
}

func (h *ServiceHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	query := h.db.Where("tenant_id = ?", tenantID)
	if r.URL.Query().Get("include_inactive") != "true" {
		query = query.Where("active = ?", true)
	}
	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var services []models.Service
	if err := query.Order("name asc").Find(&services).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error fetching services")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"services": services})
}

func (h *ServiceHandler) GetService(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	service, ok := h.findService(w, r, tenantID)
	if !ok {
		return
	}

	utils.WriteJSON(w, http.StatusOK, service)
}

func (h *ServiceHandler) UpdateService(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	service, ok := h.findService(w, r, tenantID)
	if !ok {
		return
	}

	var updateRequest struct {
		Name            string   `json:"name,omitempty"`
		Description     *string  `json:"description,omitempty"`
		Category        string   `json:"category,omitempty"`
		Duration        *int     `json:"duration,omitempty"`
		Price           *float64 `json:"price,omitempty"`
		Currency        string   `json:"currency,omitempty"`
		BufferBefore    *int     `json:"buffer_before,omitempty"`
		BufferAfter     *int     `json:"buffer_after,omitempty"`
		DepositRequired *bool    `json:"deposit_required,omitempty"`
		DepositAmount   *float64 `json:"deposit_amount,omitempty"`
		Active          *bool    `json:"active,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}

	if updateRequest.Name != "" {
		service.Name = updateRequest.Name
	}
	if updateRequest.Description != nil {
		service.Description = *updateRequest.Description
	}
	if updateRequest.Category != "" {
		service.Category = updateRequest.Category
	}
	if updateRequest.Duration != nil {
		service.Duration = *updateRequest.Duration
	}
	if updateRequest.Price != nil {
		service.Price = *updateRequest.Price
	}
	if updateRequest.Currency != "" {
		service.Currency = updateRequest.Currency
	}
	if updateRequest.BufferBefore != nil {
		service.BufferBefore = *updateRequest.BufferBefore
	}
	if updateRequest.BufferAfter != nil {
		service.BufferAfter = *updateRequest.BufferAfter
	}
	if updateRequest.DepositRequired != nil {
		service.DepositRequired = *updateRequest.DepositRequired
	}
	if updateRequest.DepositAmount != nil {
		service.DepositAmount = *updateRequest.DepositAmount
	}
	if updateRequest.Active != nil {
		service.Active = *updateRequest.Active
	}

	if msg := validateService(service); msg != "" {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, msg)
		return
	}

	// Buffer and duration edits apply to future bookings only; existing
	// appointments keep the windows they were created with.
	if err := h.db.Save(&service).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error updating service")
		return
	}

	utils.WriteJSON(w, http.StatusOK, service)
}

// DeleteService deactivates the service so existing appointments keep their
// snapshot and the loose service reference still resolves.
func (h *ServiceHandler) DeleteService(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	service, ok := h.findService(w, r, tenantID)
	if !ok {
		return
	}

	service.Active = false
	if err := h.db.Save(&service).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error deactivating service")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Service deactivated"})
}

func validateService(service models.Service) string {
	if service.Name == "" {
		return "Service name is required"
	}
	if service.Duration <= 0 {
		return "Duration must be a positive number of minutes"
	}
	if service.Price < 0 {
		return "Price cannot be negative"
	}
	if service.BufferBefore < 0 || service.BufferAfter < 0 {
		return "Buffers cannot be negative"
	}
	if service.DepositRequired && service.DepositAmount <= 0 {
		return "Deposit amount is required when a deposit is enabled"
	}
	return ""
}

func (h *ServiceHandler) findService(w http.ResponseWriter, r *http.Request, tenantID uint) (models.Service, bool) {
	vars := mux.Vars(r)
	serviceID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid service ID")
		return models.Service{}, false
	}

	var service models.Service
	if err := h.db.Where("id = ? AND tenant_id = ?", serviceID, tenantID).First(&service).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Service not found")
		return models.Service{}, false
	}
	return service, true
}
