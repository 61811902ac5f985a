package tenant

import (
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/kofiadu/salonbase-server/cmd/models"
	"github.com/kofiadu/salonbase-server/cmd/utils"
	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type TenantHandler struct {
	db *gorm.DB
}

func NewTenantHandler(db *gorm.DB) *TenantHandler {
	return &TenantHandler{db: db}
}

func (h *TenantHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/register", h.HandleRegister).Methods("POST")
	router.HandleFunc("/login", h.HandleLogin).Methods("POST")
	router.HandleFunc("/salon", utils.AuthMiddleware(h.GetSalon)).Methods("GET")
	router.HandleFunc("/salon", utils.AuthMiddleware(h.UpdateSalon)).Methods("PUT")
}

func (h *TenantHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var registerRequest struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Phone    string `json:"phone,omitempty"`
		Address  string `json:"address,omitempty"`
		Currency string `json:"currency,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&registerRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}

	if registerRequest.Name == "" || registerRequest.Email == "" || registerRequest.Password == "" {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Name, email and password are required")
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(registerRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error hashing password")
		return
	}

	tenant := models.Tenant{
		Name:         registerRequest.Name,
		Slug:         Slugify(registerRequest.Name),
		Email:        registerRequest.Email,
		PasswordHash: string(passwordHash),
		Phone:        registerRequest.Phone,
		Address:      registerRequest.Address,
		Currency:     registerRequest.Currency,
		Plan:         "starter",
		Active:       true,
		AccessToken:  utils.GeneratePublicToken(),
	}
	if tenant.Currency == "" {
		tenant.Currency = "EUR"
	}
	if tenant.Slug == "" {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Salon name must contain at least one letter or digit")
		return
	}

	if err := h.db.Create(&tenant).Error; err != nil {
		// Slug and email carry unique indexes; a collision here means the
		// name or email is already taken.
		utils.WriteError(w, http.StatusConflict, utils.CodeDuplicateEntry, "A salon with this name or email already exists")
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":      "Salon registered successfully",
		"salon_id":     tenant.ID,
		"slug":         tenant.Slug,
		"access_token": tenant.AccessToken,
	})
}

func (h *TenantHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&loginRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}

	var tenant models.Tenant
	if err := h.db.Where("email = ? AND active = ?", loginRequest.Email, true).First(&tenant).Error; err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(tenant.PasswordHash), []byte(loginRequest.Password)); err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Invalid credentials")
		return
	}

	accessToken, err := generateJWT(tenant.ID, 7500)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, utils.CodeInternal, "Error generating access token")
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Login successful",
		"access_token": accessToken,
		"salon_id":     tenant.ID,
		"slug":         tenant.Slug,
	})
}

func generateJWT(tenantID uint, minutes int) (string, error) {
	claims := &jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(tenantID), 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(minutes) * time.Minute)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("SECRET_KEY")))
}

func (h *TenantHandler) GetSalon(w http.ResponseWriter, r *http.Request) {
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

	utils.WriteJSON(w, http.StatusOK, tenant)
}

// UpdateSalon edits the profile. Renaming the salon recomputes the slug;
// the unique index rejects a name whose slug is already taken.
func (h *TenantHandler) UpdateSalon(w http.ResponseWriter, r *http.Request) {
	tenantID, err := utils.GetTenantIDFromContext(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.CodeValidation, "Missing tenant context")
		return
	}

	var updateRequest struct {
		Name     string `json:"name,omitempty"`
		Phone    string `json:"phone,omitempty"`
		Address  string `json:"address,omitempty"`
		Currency string `json:"currency,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&updateRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Invalid request body")
		return
	}

	var tenant models.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.CodeNotFound, "Salon not found")
		return
	}

	if updateRequest.Name != "" && updateRequest.Name != tenant.Name {
		slug := Slugify(updateRequest.Name)
		if slug == "" {
			utils.WriteError(w, http.StatusBadRequest, utils.CodeValidation, "Salon name must contain at least one letter or digit")
			return
		}
		tenant.Name = updateRequest.Name
		tenant.Slug = slug
	}
	if updateRequest.Phone != "" {
		tenant.Phone = updateRequest.Phone
	}
	if updateRequest.Address != "" {
		tenant.Address = updateRequest.Address
	}
	if updateRequest.Currency != "" {
		tenant.Currency = updateRequest.Currency
	}

	if err := h.db.Save(&tenant).Error; err != nil {
		utils.WriteError(w, http.StatusConflict, utils.CodeDuplicateEntry, "A salon with this name already exists")
		return
	}

	utils.WriteJSON(w, http.StatusOK, tenant)
}
