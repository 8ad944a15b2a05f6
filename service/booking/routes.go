package booking

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nishirajsingh/AyurSutra/cmd/models"
	"github.com/nishirajsingh/AyurSutra/cmd/utils"
	"github.com/nishirajsingh/AyurSutra/service/notification"
)

const defaultAmount = 1000

type Handler struct {
	db       *gorm.DB
	notifier *notification.Notifier
}

func NewHandler(db *gorm.DB, notifier *notification.Notifier) *Handler {
	return &Handler{db: db, notifier: notifier}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/bookings", utils.Auth(h.db, h.CreateBooking)).Methods("POST")
	router.HandleFunc("/bookings/my", utils.Auth(h.db, h.GetMyBookings)).Methods("GET")
	router.HandleFunc("/bookings/dashboard-stats", utils.Auth(h.db, h.GetDashboardStats)).Methods("GET")
	router.HandleFunc("/bookings/{id}", utils.Auth(h.db, h.GetBooking)).Methods("GET")
	router.HandleFunc("/bookings/{id}/status", utils.Auth(h.db, h.UpdateStatus)).Methods("PUT", "PATCH")
	router.HandleFunc("/bookings/{id}/feedback", utils.Auth(h.db, h.SubmitFeedback)).Methods("PUT")
}

// CreateBooking books a slot for the calling patient. The transactional
// pre-check gives a friendly conflict message; the partial unique index
// on (practitioner, date, time_slot) is what actually guarantees a slot
// is never double-booked under concurrent requests.
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	user, err := utils.CurrentUser(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	if user.Role != models.RolePatient {
		utils.WriteError(w, http.StatusForbidden, "Only patients can create bookings")
		return
	}

	var bookingRequest struct {
		Practitioner uint    `json:"practitioner"`
		TherapyType  string  `json:"therapyType"`
		Date         string  `json:"date"`
		Time         string  `json:"time"`
		Duration     int     `json:"duration"`
		Amount       float64 `json:"amount"`
		Notes        string  `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&bookingRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if bookingRequest.Practitioner == 0 || bookingRequest.TherapyType == "" ||
		bookingRequest.Date == "" || bookingRequest.Time == "" {
		utils.WriteError(w, http.StatusBadRequest, "Practitioner, therapyType, date and time are required")
		return
	}

	date, err := time.Parse("2006-01-02", bookingRequest.Date)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return
	}
	if _, err := time.Parse("15:04", bookingRequest.Time); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid time format. Use HH:MM")
		return
	}
	if len(bookingRequest.Notes) > 500 {
		utils.WriteError(w, http.StatusBadRequest, "Notes must be at most 500 characters")
		return
	}
	// A negative amount would later be subtracted from the
	// practitioner's earnings on completion.
	if bookingRequest.Amount < 0 {
		utils.WriteError(w, http.StatusBadRequest, "Amount cannot be negative")
		return
	}
	if bookingRequest.Duration < 0 {
		utils.WriteError(w, http.StatusBadRequest, "Duration cannot be negative")
		return
	}

	tx := h.db.Begin()

	var practitioner models.User
	if err := tx.First(&practitioner, bookingRequest.Practitioner).Error; err != nil ||
		practitioner.Role != models.RolePractitioner || !practitioner.IsActive {
		tx.Rollback()
		utils.WriteError(w, http.StatusBadRequest, "Invalid practitioner selected")
		return
	}

	// Unknown therapy names are rejected; the catalog is admin-seeded.
	var therapy models.Therapy
	if err := tx.Where("name = ? AND is_active = ?", bookingRequest.TherapyType, true).
		First(&therapy).Error; err != nil {
		tx.Rollback()
		utils.WriteError(w, http.StatusBadRequest, "Unknown therapy selected")
		return
	}

	var existing models.Booking
	if err := tx.Where("practitioner_id = ? AND date = ? AND time_slot = ? AND status IN ?",
		bookingRequest.Practitioner, date, bookingRequest.Time,
		[]string{models.BookingPending, models.BookingConfirmed}).
		First(&existing).Error; err == nil {
		tx.Rollback()
		utils.WriteError(w, http.StatusConflict, "This time slot is already booked")
		return
	}

	amount := bookingRequest.Amount
	if amount == 0 {
		amount = therapy.Price
	}
	if amount == 0 {
		amount = defaultAmount
	}
	duration := bookingRequest.Duration
	if duration == 0 {
		duration = therapy.Duration
	}
	if duration == 0 {
		duration = 60
	}

	booking := models.Booking{
		Reference:      "AYS-" + uuid.NewString(),
		PatientID:      user.ID,
		PractitionerID: practitioner.ID,
		TherapyID:      therapy.ID,
		TherapyName:    therapy.Name,
		Date:           date,
		TimeSlot:       bookingRequest.Time,
		Duration:       duration,
		Amount:         amount,
		Status:         models.BookingPending,
		Notes:          bookingRequest.Notes,
	}

	if err := tx.Create(&booking).Error; err != nil {
		tx.Rollback()
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			utils.WriteError(w, http.StatusConflict, "This time slot is already booked")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Error creating booking")
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error completing booking")
		return
	}

	prettyDate := date.Format("Monday, January 2, 2006")
	h.notifier.Notify(practitioner.ID,
		"New Booking Request",
		user.Name+" has requested a "+therapy.Name+" session on "+prettyDate+" at "+
			bookingRequest.Time+". Please review and confirm.",
		models.NotificationTypeAppointment, &booking.ID, models.PriorityHigh)
	h.notifier.Notify(user.ID,
		"Booking Received",
		"Your booking request for "+therapy.Name+" on "+prettyDate+" at "+
			bookingRequest.Time+" has been sent to the practitioner. You will be notified once it is confirmed.",
		models.NotificationTypeAppointment, &booking.ID, models.PriorityMedium)

	h.db.Preload("Patient").Preload("Practitioner").Preload("Therapy").First(&booking, booking.ID)

	utils.WriteMessage(w, http.StatusCreated, "Booking created successfully", map[string]interface{}{
		"booking": booking,
	})
}

// GetMyBookings lists the caller's bookings on their side of the
// relationship, newest date first (or soonest first for upcoming views).
func (h *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	user, err := utils.CurrentUser(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	query := h.db.Model(&models.Booking{}).
		Preload("Patient").Preload("Practitioner").Preload("Therapy")

	switch user.Role {
	case models.RolePatient:
		query = query.Where("patient_id = ?", user.ID)
	case models.RolePractitioner:
		query = query.Where("practitioner_id = ?", user.ID)
	default:
		// Admins see everything.
	}

	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	order := "date DESC, time_slot DESC"
	if r.URL.Query().Get("upcoming") == "true" {
		query = query.Where("date >= ? AND status IN ?", today(),
			[]string{models.BookingPending, models.BookingConfirmed})
		order = "date ASC, time_slot ASC"
	}

	var total int64
	query.Count(&total)

	var bookings []models.Booking
	if err := query.Order(order).
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&bookings).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error retrieving bookings")
		return
	}

	utils.WriteData(w, http.StatusOK, map[string]interface{}{
		"bookings":    bookings,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	user, err := utils.CurrentUser(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	var booking models.Booking
	if err := h.db.Preload("Patient").Preload("Practitioner").Preload("Therapy").
		First(&booking, bookingID).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, "Booking not found")
		return
	}

	if !utils.Can(user, utils.ActionViewBooking, utils.OwnsBooking(user, &booking)) {
		utils.WriteError(w, http.StatusForbidden, "Access denied")
		return
	}

	utils.WriteData(w, http.StatusOK, map[string]interface{}{"booking": booking})
}

// UpdateStatus drives the booking state machine. Completion applies the
// earnings update under a practitioner row lock inside the same
// transaction so concurrent completions never lose an increment.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	user, err := utils.CurrentUser(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	var statusRequest struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&statusRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if statusRequest.Status == "" {
		utils.WriteError(w, http.StatusBadRequest, "Status is required")
		return
	}

	tx := h.db.Begin()

	var booking models.Booking
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, bookingID).Error; err != nil {
		tx.Rollback()
		utils.WriteError(w, http.StatusNotFound, "Booking not found")
		return
	}

	if !ActorMayTransition(user, &booking, statusRequest.Status) {
		tx.Rollback()
		utils.WriteError(w, http.StatusForbidden, "Access denied")
		return
	}
	if !TransitionAllowed(booking.Status, statusRequest.Status) {
		tx.Rollback()
		utils.WriteError(w, http.StatusBadRequest,
			"Cannot move booking from "+booking.Status+" to "+statusRequest.Status)
		return
	}

	now := time.Now()
	booking.Status = statusRequest.Status
	switch statusRequest.Status {
	case models.BookingConfirmed:
		booking.ConfirmedAt = &now
	case models.BookingCancelled:
		booking.CancelledAt = &now
		booking.CancellationReason = statusRequest.Reason
		if booking.CancellationReason == "" {
			if user.ID == booking.PatientID {
				booking.CancellationReason = "Cancelled by patient"
			} else {
				booking.CancellationReason = "Practitioner unavailable"
			}
		}
	case models.BookingCompleted:
		booking.CompletedAt = &now
		if err := h.applyEarnings(tx, booking.PractitionerID, booking.Amount, now); err != nil {
			tx.Rollback()
			utils.WriteError(w, http.StatusInternalServerError, "Error updating earnings")
			return
		}
	}

	if err := tx.Save(&booking).Error; err != nil {
		tx.Rollback()
		utils.WriteError(w, http.StatusInternalServerError, "Error updating booking")
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error completing update")
		return
	}

	title, message, ntype, priority := statusMessage(&booking, statusRequest.Status, user.Name)
	h.notifier.Notify(booking.PatientID, title, message, ntype, &booking.ID, priority)

	h.db.Preload("Patient").Preload("Practitioner").Preload("Therapy").First(&booking, booking.ID)

	utils.WriteMessage(w, http.StatusOK, "Booking updated successfully", map[string]interface{}{
		"booking": booking,
	})
}

// applyEarnings adds the booking amount to the practitioner's totals.
// The row lock serializes concurrent completions for one practitioner;
// the monthly counter resets when the calendar month has rolled over.
func (h *Handler) applyEarnings(tx *gorm.DB, practitionerID uint, amount float64, now time.Time) error {
	var practitioner models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&practitioner, practitionerID).Error; err != nil {
		return err
	}

	monthly := practitioner.MonthlyEarnings
	if practitioner.EarningsUpdatedAt == nil || !sameCalendarMonth(*practitioner.EarningsUpdatedAt, now) {
		monthly = 0
	}

	return tx.Model(&practitioner).Updates(map[string]interface{}{
		"total_earnings":      practitioner.TotalEarnings + amount,
		"monthly_earnings":    monthly + amount,
		"earnings_updated_at": now,
	}).Error
}

// SubmitFeedback attaches the patient's one-time feedback to a completed
// booking and folds the rating into the practitioner's running average.
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	user, err := utils.CurrentUser(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	vars := mux.Vars(r)
	bookingID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	var feedbackRequest struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&feedbackRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if feedbackRequest.Rating < 1 || feedbackRequest.Rating > 5 {
		utils.WriteError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}
	if len(feedbackRequest.Comment) > 500 {
		utils.WriteError(w, http.StatusBadRequest, "Comment must be at most 500 characters")
		return
	}

	tx := h.db.Begin()

	var booking models.Booking
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, bookingID).Error; err != nil {
		tx.Rollback()
		utils.WriteError(w, http.StatusNotFound, "Booking not found")
		return
	}

	if booking.PatientID != user.ID {
		tx.Rollback()
		utils.WriteError(w, http.StatusForbidden, "Access denied")
		return
	}
	if booking.Status != models.BookingCompleted {
		tx.Rollback()
		utils.WriteError(w, http.StatusBadRequest, "Can only provide feedback for completed sessions")
		return
	}
	if booking.Reviewed() {
		tx.Rollback()
		utils.WriteError(w, http.StatusBadRequest, "Feedback has already been submitted for this session")
		return
	}

	now := time.Now()
	booking.Feedback = models.Feedback{
		Rating:      &feedbackRequest.Rating,
		Comment:     feedbackRequest.Comment,
		SubmittedAt: &now,
	}
	if err := tx.Save(&booking).Error; err != nil {
		tx.Rollback()
		utils.WriteError(w, http.StatusInternalServerError, "Error saving feedback")
		return
	}

	var practitioner models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&practitioner, booking.PractitionerID).Error; err != nil {
		tx.Rollback()
		utils.WriteError(w, http.StatusInternalServerError, "Error updating practitioner rating")
		return
	}
	if err := tx.Model(&practitioner).Updates(map[string]interface{}{
		"rating":        newAverage(practitioner.Rating, practitioner.TotalRatings, feedbackRequest.Rating),
		"total_ratings": practitioner.TotalRatings + 1,
	}).Error; err != nil {
		tx.Rollback()
		utils.WriteError(w, http.StatusInternalServerError, "Error updating practitioner rating")
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error completing feedback")
		return
	}

	h.notifier.Notify(booking.PractitionerID,
		"New Feedback Received",
		user.Name+" rated your "+booking.TherapyName+" session "+
			strconv.Itoa(feedbackRequest.Rating)+"/5.",
		models.NotificationTypeFeedback, &booking.ID, models.PriorityLow)

	utils.WriteMessage(w, http.StatusOK, "Feedback submitted successfully", map[string]interface{}{
		"booking": booking,
	})
}

// GetDashboardStats recomputes the role-specific counters per request.
func (h *Handler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	user, err := utils.CurrentUser(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	switch user.Role {
	case models.RolePatient:
		h.patientStats(w, user)
	case models.RolePractitioner:
		h.practitionerStats(w, user)
	default:
		utils.WriteError(w, http.StatusForbidden, "Use the admin dashboard endpoint")
	}
}

func (h *Handler) patientStats(w http.ResponseWriter, user *models.User) {
	var total, completed, upcoming int64

	h.db.Model(&models.Booking{}).Where("patient_id = ?", user.ID).Count(&total)
	h.db.Model(&models.Booking{}).
		Where("patient_id = ? AND status = ?", user.ID, models.BookingCompleted).
		Count(&completed)
	h.db.Model(&models.Booking{}).
		Where("patient_id = ? AND status IN ? AND date >= ?",
			user.ID, []string{models.BookingPending, models.BookingConfirmed}, today()).
		Count(&upcoming)

	var recent []models.Booking
	h.db.Where("patient_id = ?", user.ID).
		Preload("Practitioner").Preload("Therapy").
		Order("date DESC, time_slot DESC").Limit(5).
		Find(&recent)

	utils.WriteData(w, http.StatusOK, map[string]interface{}{
		"stats": map[string]interface{}{
			"total_bookings":     total,
			"completed_bookings": completed,
			"upcoming_bookings":  upcoming,
			"recent_bookings":    recent,
		},
	})
}

func (h *Handler) practitionerStats(w http.ResponseWriter, user *models.User) {
	startOfDay := today()
	endOfDay := startOfDay.AddDate(0, 0, 1)
	startOfMonth := time.Date(startOfDay.Year(), startOfDay.Month(), 1, 0, 0, 0, 0, startOfDay.Location())

	var todayCount, pending, distinctPatients int64
	h.db.Model(&models.Booking{}).
		Where("practitioner_id = ? AND date >= ? AND date < ?", user.ID, startOfDay, endOfDay).
		Count(&todayCount)
	h.db.Model(&models.Booking{}).
		Where("practitioner_id = ? AND status = ?", user.ID, models.BookingPending).
		Count(&pending)
	h.db.Model(&models.Booking{}).
		Where("practitioner_id = ?", user.ID).
		Distinct("patient_id").
		Count(&distinctPatients)

	var monthlyRevenue float64
	h.db.Model(&models.Booking{}).
		Where("practitioner_id = ? AND status = ? AND date >= ?",
			user.ID, models.BookingCompleted, startOfMonth).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&monthlyRevenue)

	var todaySchedule []models.Booking
	h.db.Where("practitioner_id = ? AND date >= ? AND date < ?", user.ID, startOfDay, endOfDay).
		Preload("Patient").Preload("Therapy").
		Order("time_slot ASC").
		Find(&todaySchedule)

	utils.WriteData(w, http.StatusOK, map[string]interface{}{
		"stats": map[string]interface{}{
			"today_bookings":   todayCount,
			"pending_bookings": pending,
			"total_patients":   distinctPatients,
			"monthly_revenue":  monthlyRevenue,
			"rating":           user.Rating,
			"total_ratings":    user.TotalRatings,
			"monthly_earnings": user.MonthlyEarnings,
			"total_earnings":   user.TotalEarnings,
			"today_schedule":   todaySchedule,
		},
	})
}

func today() time.Time {
	return startOfDay(time.Now())
}
