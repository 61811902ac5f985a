package client

import (
	"net/http"
	"strconv"

	"github.com/kofiadu/salonbase-server/cmd/models"
	"github.com/kofiadu/salonbase-server/cmd/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

func (h *ClientHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/clients", utils.AuthMiddleware(h.GetClients)).Methods("GET")
	router.HandleFunc("/clients/{id}", utils.AuthMiddleware(h.GetClient)).Methods("GET")
}

func (h *ClientHandler) GetClients(w http.ResponseWriter, r *http.Request) {
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

	query := h.db.Model(&models.Client{}).Where("tenant_id = ?", tenantID)

	if email := r.URL.Query().Get("email"); email != "" {
		query = query.Where("email = ?", email)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR phone ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	query.Count(&total)

	var clients []models.Client
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("last_name ASC, first_name ASC").Find(&clients).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error retrieving clients")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"clients":     clients,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	vars := mux.Vars(r)
	clientID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid client ID")
		return
	}

	var c models.Client
	if err := h.db.Where("id = ? AND tenant_id = ?", clientID, tenantID).First(&c).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Client not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, c)
}
