package subscription

import (
	"net/http"
	"time"

	"github.com/kofiadu/salonbase-server/cmd/models"
	"github.com/kofiadu/salonbase-server/cmd/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type SubscriptionHandler struct {
	db *gorm.DB
}

func NewSubscriptionHandler(db *gorm.DB) *SubscriptionHandler {
	return &SubscriptionHandler{db: db}
}

func (h *SubscriptionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/subscription/usage", utils.AuthMiddleware(h.GetUsage)).Methods("GET")
}

// GetUsage reports the tenant's plan, current monthly appointment count and
// ceiling.
func (h *SubscriptionHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Salon not found")
		return
	}

	quota, err := CheckAppointmentQuota(h.db, &tenant, time.Now())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error computing usage")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"plan":         tenant.Plan,
		"appointments": quota,
	})
}
