package notification

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/kofiadu/salonbase-server/cmd/models"
	"github.com/kofiadu/salonbase-server/cmd/utils"
	"github.com/gorilla/mux"
	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
	"gorm.io/gorm"
)

type NotificationHandler struct {
	db *gorm.DB
}

func NewNotificationHandler(db *gorm.DB) *NotificationHandler {
	return &NotificationHandler{db: db}
}

func (h *NotificationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/devices", utils.AuthMiddleware(h.RegisterDevice)).Methods("POST")
	router.HandleFunc("/devices", utils.AuthMiddleware(h.GetDevices)).Methods("GET")
	router.HandleFunc("/devices/{id}", utils.AuthMiddleware(h.DeleteDevice)).Methods("DELETE")
}

// RegisterDevice registers a salon device for push notifications.
func (h *NotificationHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	var device models.Device
	if err := json.NewDecoder(r.Body).Decode(&device); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}
	device.TenantID = tenantID

	if device.Token == "" {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Device token is required")
		return
	}

	if _, err := expo.NewExponentPushToken(device.Token); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid Expo push token format")
		return
	}

	var existingDevice models.Device
	result := h.db.Where("token = ? AND tenant_id = ?", device.Token, tenantID).First(&existingDevice)

	if result.Error == nil {
		existingDevice.UpdatedAt = time.Now()
		existingDevice.DeviceType = device.DeviceType
		existingDevice.DeviceName = device.DeviceName
		if err := h.db.Save(&existingDevice).Error; err != nil {
			utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error updating device")
			return
		}
		device = existingDevice
	} else {
		if err := h.db.Create(&device).Error; err != nil {
			utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error creating device")
			return
		}
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Device registered successfully",
		"device":  device,
	})
}

func (h *NotificationHandler) GetDevices(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	var devices []models.Device
	if err := h.db.Where("tenant_id = ?", tenantID).Find(&devices).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error retrieving devices")
		return
	}

	utils.WriteJSON(w, http.StatusOK, devices)
}

func (h *NotificationHandler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	vars := mux.Vars(r)
	deviceID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid device ID")
		return
	}

	result := h.db.Where("id = ? AND tenant_id = ?", deviceID, tenantID).Delete(&models.Device{})
	if result.Error != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error deleting device")
		return
	}
	if result.RowsAffected == 0 {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Device not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Device deleted successfully",
	})
}
