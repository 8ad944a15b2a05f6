package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
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
	router.HandleFunc("/auth/register", h.HandleRegister).Methods("POST")
	router.HandleFunc("/auth/login", h.HandleLogin).Methods("POST")
	router.HandleFunc("/auth/me", utils.Auth(h.db, h.HandleMe)).Methods("GET")
	router.HandleFunc("/auth/profile", utils.Auth(h.db, h.HandleUpdateProfile)).Methods("PUT")
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var registerRequest struct {
		Name              string   `json:"name"`
		Email             string   `json:"email"`
		Password          string   `json:"password"`
		Role              string   `json:"role"`
		Phone             string   `json:"phone"`
		Address           string   `json:"address"`
		DateOfBirth       string   `json:"date_of_birth"`
		Gender            string   `json:"gender"`
		Age               int      `json:"age"`
		Specialization    string   `json:"specialization"`
		Experience        int      `json:"experience"`
		Qualification     string   `json:"qualification"`
		ConsultationFee   float64  `json:"consultation_fee"`
		AvailabilityDays  []string `json:"availability_days"`
		AvailabilitySlots []string `json:"availability_slots"`
	}

	if err := json.NewDecoder(r.Body).Decode(&registerRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if registerRequest.Name == "" || registerRequest.Email == "" || registerRequest.Password == "" {
		utils.WriteError(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}
	if len(registerRequest.Password) < 6 {
		utils.WriteError(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	role := registerRequest.Role
	if role == "" {
		role = models.RolePatient
	}
	if role != models.RolePatient && role != models.RolePractitioner && role != models.RoleAdmin {
		utils.WriteError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(registerRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	now := time.Now()
	user := models.User{
		Name:         registerRequest.Name,
		Email:        registerRequest.Email,
		PasswordHash: string(passwordHash),
		Role:         role,
		Phone:        registerRequest.Phone,
		Address:      registerRequest.Address,
		Gender:       registerRequest.Gender,
		Age:          registerRequest.Age,
		IsActive:     true,
		LastLogin:    &now,
	}

	if registerRequest.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", registerRequest.DateOfBirth)
		if err != nil {
			utils.WriteError(w, http.StatusBadRequest, "Invalid date_of_birth format. Use YYYY-MM-DD")
			return
		}
		user.DateOfBirth = &dob
	}

	if role == models.RolePractitioner {
		user.Specialization = registerRequest.Specialization
		user.Experience = registerRequest.Experience
		user.Qualification = registerRequest.Qualification
		user.ConsultationFee = registerRequest.ConsultationFee
		if user.ConsultationFee == 0 {
			user.ConsultationFee = 1000
		}
		user.AvailabilityDays = registerRequest.AvailabilityDays
		user.AvailabilitySlots = registerRequest.AvailabilitySlots
	}

	if err := h.db.Create(&user).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			utils.WriteError(w, http.StatusConflict, "User already exists with this email")
			return
		}
		utils.WriteError(w, http.StatusInternalServerError, "Error registering user")
		return
	}

	token, err := GenerateJWT(user.ID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	utils.WriteData(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var loginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&loginRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if loginRequest.Email == "" || loginRequest.Password == "" {
		utils.WriteError(w, http.StatusBadRequest, "Please provide email and password")
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", loginRequest.Email).First(&user).Error; err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(loginRequest.Password)); err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !user.IsActive {
		utils.WriteError(w, http.StatusUnauthorized, "Account is deactivated")
		return
	}

	now := time.Now()
	h.db.Model(&user).Update("last_login", now)
	user.LastLogin = &now

	token, err := GenerateJWT(user.ID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	utils.WriteData(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := utils.CurrentUser(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	response := map[string]interface{}{"user": user}

	if user.Role == models.RolePractitioner {
		var upcoming int64
		h.db.Model(&models.Booking{}).
			Where("practitioner_id = ? AND status IN ? AND date >= ?",
				user.ID, []string{models.BookingPending, models.BookingConfirmed}, today()).
			Count(&upcoming)

		response["stats"] = map[string]interface{}{
			"upcoming_bookings": upcoming,
			"rating":            user.Rating,
			"total_ratings":     user.TotalRatings,
			"total_earnings":    user.TotalEarnings,
			"monthly_earnings":  user.MonthlyEarnings,
		}
	}

	utils.WriteData(w, http.StatusOK, response)
}

// profileUpdate holds the only fields a user may edit on their own
// profile. Role, email, earnings, and rating are never writable here.
type profileUpdate struct {
	Name              *string  `json:"name"`
	Phone             *string  `json:"phone"`
	Address           *string  `json:"address"`
	DateOfBirth       *string  `json:"date_of_birth"`
	Gender            *string  `json:"gender"`
	Age               *int     `json:"age"`
	Specialization    *string  `json:"specialization"`
	Experience        *int     `json:"experience"`
	Qualification     *string  `json:"qualification"`
	ConsultationFee   *float64 `json:"consultation_fee"`
	AvailabilityDays  []string `json:"availability_days"`
	AvailabilitySlots []string `json:"availability_slots"`
}

// apply copies the provided fields onto the user. Practitioner fields
// are ignored for every other role.
func (p *profileUpdate) apply(user *models.User) error {
	if p.Name != nil {
		user.Name = *p.Name
	}
	if p.Phone != nil {
		user.Phone = *p.Phone
	}
	if p.Address != nil {
		user.Address = *p.Address
	}
	if p.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *p.DateOfBirth)
		if err != nil {
			return errors.New("Invalid date_of_birth format. Use YYYY-MM-DD")
		}
		user.DateOfBirth = &dob
	}
	if p.Gender != nil {
		user.Gender = *p.Gender
	}
	if p.Age != nil {
		user.Age = *p.Age
	}

	if user.Role == models.RolePractitioner {
		if p.Specialization != nil {
			user.Specialization = *p.Specialization
		}
		if p.Experience != nil {
			user.Experience = *p.Experience
		}
		if p.Qualification != nil {
			user.Qualification = *p.Qualification
		}
		if p.ConsultationFee != nil {
			user.ConsultationFee = *p.ConsultationFee
		}
		if p.AvailabilityDays != nil {
			user.AvailabilityDays = p.AvailabilityDays
		}
		if p.AvailabilitySlots != nil {
			user.AvailabilitySlots = p.AvailabilitySlots
		}
	}
	return nil
}

func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, err := utils.CurrentUser(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var updateRequest profileUpdate
	if err := json.NewDecoder(r.Body).Decode(&updateRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := updateRequest.apply(user); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.db.Save(user).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error updating profile")
		return
	}

	utils.WriteMessage(w, http.StatusOK, "Profile updated successfully", map[string]interface{}{
		"user": user,
	})
}

// Booking dates are stored as UTC midnight, so the day window is built
// in UTC as well.
func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
