package admin

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
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
	router.HandleFunc("/admin/dashboard", utils.Auth(h.db, utils.RequireRole(h.GetDashboard, models.RoleAdmin))).Methods("GET")
	router.HandleFunc("/admin/users", utils.Auth(h.db, utils.RequireRole(h.GetUsers, models.RoleAdmin))).Methods("GET")
	router.HandleFunc("/admin/users/{id}/active", utils.Auth(h.db, utils.RequireRole(h.SetUserActive, models.RoleAdmin))).Methods("PATCH")
}

// GetDashboard aggregates the platform-wide counters. Everything is
// recomputed from the bookings and users tables per request.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	var activePatients, activePractitioners, activeTherapies int64
	h.db.Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RolePatient, true).
		Count(&activePatients)
	h.db.Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RolePractitioner, true).
		Count(&activePractitioners)
	h.db.Model(&models.Therapy{}).Where("is_active = ?", true).Count(&activeTherapies)

	// Booking dates are stored as UTC midnight; build windows in UTC.
	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var todayBookings int64
	h.db.Model(&models.Booking{}).
		Where("date >= ? AND date < ?", startOfDay, startOfDay.AddDate(0, 0, 1)).
		Count(&todayBookings)

	var monthlyRevenue float64
	h.db.Model(&models.Booking{}).
		Where("status = ? AND completed_at >= ?", models.BookingCompleted, startOfMonth).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&monthlyRevenue)

	var platformRating float64
	h.db.Model(&models.User{}).
		Where("role = ? AND total_ratings > 0", models.RolePractitioner).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&platformRating)

	var recentTransactions []models.Booking
	h.db.Where("status = ?", models.BookingCompleted).
		Preload("Patient").Preload("Practitioner").
		Order("completed_at DESC").Limit(10).
		Find(&recentTransactions)

	utils.WriteData(w, http.StatusOK, map[string]interface{}{
		"stats": map[string]interface{}{
			"active_patients":      activePatients,
			"active_practitioners": activePractitioners,
			"active_therapies":     activeTherapies,
			"today_bookings":       todayBookings,
			"monthly_revenue":      monthlyRevenue,
			"platform_rating":      platformRating,
			"recent_transactions":  recentTransactions,
		},
	})
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := h.db.Model(&models.User{})
	if role := r.URL.Query().Get("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search := r.URL.Query().Get("search"); search != "" {
		query = query.Where("name ILIKE ? OR email ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&users).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error retrieving users")
		return
	}

	utils.WriteData(w, http.StatusOK, map[string]interface{}{
		"users":       users,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// SetUserActive toggles account access. Deactivated users fail auth on
// their next request; their existing bookings are left untouched.
func (h *Handler) SetUserActive(w http.ResponseWriter, r *http.Request) {
	admin, err := utils.CurrentUser(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var activeRequest struct {
		IsActive *bool `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&activeRequest); err != nil || activeRequest.IsActive == nil {
		utils.WriteError(w, http.StatusBadRequest, "isActive is required")
		return
	}

	if uint(userID) == admin.ID {
		utils.WriteError(w, http.StatusBadRequest, "Cannot change your own account status")
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	if err := h.db.Model(&user).Update("is_active", *activeRequest.IsActive).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error updating user")
		return
	}

	message := "User deactivated successfully"
	if *activeRequest.IsActive {
		message = "User activated successfully"
	}
	utils.WriteMessage(w, http.StatusOK, message, map[string]interface{}{"user": user})
}
