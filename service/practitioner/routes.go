package practitioner

import (
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
	router.HandleFunc("/practitioners", h.GetPractitioners).Methods("GET")
	router.HandleFunc("/practitioners/available-slots", h.GetAvailableSlots).Methods("GET")
	router.HandleFunc("/practitioners/{id}", h.GetPractitioner).Methods("GET")
}

// GetPractitioners lists active practitioners for the booking form.
func (h *Handler) GetPractitioners(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	query := h.db.Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RolePractitioner, true)

	if specialization := r.URL.Query().Get("specialization"); specialization != "" {
		query = query.Where("specialization ILIKE ?", "%"+specialization+"%")
	}

	var total int64
	query.Count(&total)

	var practitioners []models.User
	if err := query.Order("rating DESC, total_ratings DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&practitioners).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error retrieving practitioners")
		return
	}

	type practitionerWithStats struct {
		models.User
		CompletedSessions int64 `json:"completed_sessions"`
	}

	result := make([]practitionerWithStats, 0, len(practitioners))
	for _, p := range practitioners {
		var completed int64
		h.db.Model(&models.Booking{}).
			Where("practitioner_id = ? AND status = ?", p.ID, models.BookingCompleted).
			Count(&completed)
		result = append(result, practitionerWithStats{User: p, CompletedSessions: completed})
	}

	utils.WriteData(w, http.StatusOK, map[string]interface{}{
		"practitioners": result,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
		"total_pages":   (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

func (h *Handler) GetPractitioner(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	practitionerID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid practitioner ID")
		return
	}

	var practitioner models.User
	if err := h.db.Where("role = ?", models.RolePractitioner).
		First(&practitioner, practitionerID).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, "Practitioner not found")
		return
	}

	var completedSessions int64
	h.db.Model(&models.Booking{}).
		Where("practitioner_id = ? AND status = ?", practitioner.ID, models.BookingCompleted).
		Count(&completedSessions)

	utils.WriteData(w, http.StatusOK, map[string]interface{}{
		"practitioner":       practitioner,
		"completed_sessions": completedSessions,
	})
}

// GetAvailableSlots returns the practitioner's open slots for a date.
// Slots held by pending or confirmed bookings are excluded; cancelled
// bookings free their slot.
func (h *Handler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	practitionerID, err := strconv.ParseUint(r.URL.Query().Get("practitionerId"), 10, 64)
	if err != nil || practitionerID == 0 {
		utils.WriteError(w, http.StatusBadRequest, "practitionerId is required")
		return
	}

	dateParam := r.URL.Query().Get("date")
	date, err := time.Parse("2006-01-02", dateParam)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	var practitioner models.User
	if err := h.db.Where("role = ? AND is_active = ?", models.RolePractitioner, true).
		First(&practitioner, practitionerID).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, "Practitioner not found")
		return
	}

	template := []string(practitioner.AvailabilitySlots)
	if len(template) == 0 {
		template = DefaultSlots
	}

	if len(practitioner.AvailabilityDays) > 0 {
		weekday := date.Weekday().String()
		working := false
		for _, day := range practitioner.AvailabilityDays {
			if day == weekday {
				working = true
				break
			}
		}
		if !working {
			utils.WriteData(w, http.StatusOK, map[string]interface{}{
				"date":  dateParam,
				"slots": []string{},
			})
			return
		}
	}

	var booked []string
	if err := h.db.Model(&models.Booking{}).
		Where("practitioner_id = ? AND date = ? AND status IN ?",
			practitionerID, date,
			[]string{models.BookingPending, models.BookingConfirmed}).
		Pluck("time_slot", &booked).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error retrieving slots")
		return
	}

	utils.WriteData(w, http.StatusOK, map[string]interface{}{
		"date":  dateParam,
		"slots": AvailableSlots(template, booked),
	})
}
