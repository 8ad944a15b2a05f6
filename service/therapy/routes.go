package therapy

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/nishirajsingh/AyurSutra/cmd/models"
	"github.com/nishirajsingh/AyurSutra/cmd/utils"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/therapies", h.GetTherapies).Methods("GET")
	router.HandleFunc("/therapies", utils.Auth(h.db, utils.RequireRole(h.CreateTherapy, models.RoleAdmin))).Methods("POST")
	router.HandleFunc("/therapies/{id}", utils.Auth(h.db, utils.RequireRole(h.UpdateTherapy, models.RoleAdmin))).Methods("PUT")
	router.HandleFunc("/therapies/{id}", utils.Auth(h.db, utils.RequireRole(h.DeactivateTherapy, models.RoleAdmin))).Methods("DELETE")
}

// GetTherapies lists the active catalog with per-therapy booking counts.
func (h *Handler) GetTherapies(w http.ResponseWriter, r *http.Request) {
	query := h.db.Where("is_active = ?", true)
	if category := r.URL.Query().Get("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var therapies []models.Therapy
	if err := query.Order("name ASC").Find(&therapies).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error retrieving therapies")
		return
	}

	type therapyWithCount struct {
		models.Therapy
		BookingCount int64 `json:"booking_count"`
	}

	result := make([]therapyWithCount, 0, len(therapies))
	for _, t := range therapies {
		var count int64
		h.db.Model(&models.Booking{}).Where("therapy_id = ?", t.ID).Count(&count)
		result = append(result, therapyWithCount{Therapy: t, BookingCount: count})
	}

	utils.WriteData(w, http.StatusOK, map[string]interface{}{"therapies": result})
}

func (h *Handler) CreateTherapy(w http.ResponseWriter, r *http.Request) {
	var therapyRequest struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Duration    int      `json:"duration"`
		Price       float64  `json:"price"`
		Category    string   `json:"category"`
		Benefits    []string `json:"benefits"`
	}
	if err := json.NewDecoder(r.Body).Decode(&therapyRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if therapyRequest.Name == "" {
		utils.WriteError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if therapyRequest.Price < 0 {
		utils.WriteError(w, http.StatusBadRequest, "Price cannot be negative")
		return
	}
	if therapyRequest.Category != "" && !models.ValidTherapyCategory(therapyRequest.Category) {
		utils.WriteError(w, http.StatusBadRequest, "Invalid therapy category")
		return
	}

	therapy := models.Therapy{
		Name:        therapyRequest.Name,
		Description: therapyRequest.Description,
		Duration:    therapyRequest.Duration,
		Price:       therapyRequest.Price,
		Category:    therapyRequest.Category,
		Benefits:    pq.StringArray(therapyRequest.Benefits),
		IsActive:    true,
	}
	if therapy.Duration == 0 {
		therapy.Duration = 60
	}

	if err := h.db.Create(&therapy).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			utils.WriteError(w, http.StatusConflict, "A therapy with this name already exists")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Error creating therapy")
		return
	}

	utils.WriteMessage(w, http.StatusCreated, "Therapy created successfully", map[string]interface{}{
		"therapy": therapy,
	})
}

func (h *Handler) UpdateTherapy(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	therapyID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid therapy ID")
		return
	}

	var therapy models.Therapy
	if err := h.db.First(&therapy, therapyID).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, "Therapy not found")
		return
	}

	var therapyRequest struct {
		Description *string   `json:"description"`
		Duration    *int      `json:"duration"`
		Price       *float64  `json:"price"`
		Category    *string   `json:"category"`
		Benefits    *[]string `json:"benefits"`
		IsActive    *bool     `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&therapyRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if therapyRequest.Description != nil {
		therapy.Description = *therapyRequest.Description
	}
	if therapyRequest.Duration != nil {
		therapy.Duration = *therapyRequest.Duration
	}
	if therapyRequest.Price != nil {
		if *therapyRequest.Price < 0 {
			utils.WriteError(w, http.StatusBadRequest, "Price cannot be negative")
			return
		}
		therapy.Price = *therapyRequest.Price
	}
	if therapyRequest.Category != nil {
		if !models.ValidTherapyCategory(*therapyRequest.Category) {
			utils.WriteError(w, http.StatusBadRequest, "Invalid therapy category")
			return
		}
		therapy.Category = *therapyRequest.Category
	}
	if therapyRequest.Benefits != nil {
		therapy.Benefits = pq.StringArray(*therapyRequest.Benefits)
	}
	if therapyRequest.IsActive != nil {
		therapy.IsActive = *therapyRequest.IsActive
	}

	if err := h.db.Save(&therapy).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error updating therapy")
		return
	}

	utils.WriteMessage(w, http.StatusOK, "Therapy updated successfully", map[string]interface{}{
		"therapy": therapy,
	})
}

// DeactivateTherapy soft-deletes from the catalog. Existing bookings
// keep their copied therapy name and price.
func (h *Handler) DeactivateTherapy(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	therapyID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid therapy ID")
		return
	}

	var therapy models.Therapy
	if err := h.db.First(&therapy, therapyID).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, "Therapy not found")
		return
	}

	if err := h.db.Model(&therapy).Update("is_active", false).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error deactivating therapy")
		return
	}

	utils.WriteMessage(w, http.StatusOK, "Therapy deactivated successfully", nil)
}
