package notification

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
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
	router.HandleFunc("/notifications", utils.Auth(h.db, h.GetNotifications)).Methods("GET")
	router.HandleFunc("/notifications/{id}/read", utils.Auth(h.db, h.MarkRead)).Methods("PATCH")
	router.HandleFunc("/notifications/read-all", utils.Auth(h.db, h.MarkAllRead)).Methods("PATCH")
	router.HandleFunc("/notifications/devices", utils.Auth(h.db, h.RegisterDevice)).Methods("POST")
	router.HandleFunc("/notifications/devices/{id}", utils.Auth(h.db, h.DeleteDevice)).Methods("DELETE")
}

// GetNotifications lists the caller's notifications, newest first.
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	user, err := utils.CurrentUser(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 20

	query := h.db.Model(&models.Notification{}).Where("user_id = ?", user.ID)

	if unread := r.URL.Query().Get("unread"); unread == "true" {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	query.Count(&total)

	var unreadCount int64
	h.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Count(&unreadCount)

	var notifications []models.Notification
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&notifications).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error retrieving notifications")
		return
	}

	utils.WriteData(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
		"unread_count":  unreadCount,
		"total":         total,
		"page":          page,
		"page_size":     pageSize,
		"total_pages":   (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// MarkRead flips the read flag on one of the caller's notifications.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, err := utils.CurrentUser(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	vars := mux.Vars(r)
	notificationID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	result := h.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, user.ID).
		Update("is_read", true)
	if result.Error != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error updating notification")
		return
	}
	if result.RowsAffected == 0 {
		utils.WriteError(w, http.StatusNotFound, "Notification not found")
		return
	}

	utils.WriteMessage(w, http.StatusOK, "Notification marked as read", nil)
}

func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	user, err := utils.CurrentUser(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", user.ID, false).
		Update("is_read", true).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error updating notifications")
		return
	}

	utils.WriteMessage(w, http.StatusOK, "All notifications marked as read", nil)
}

// RegisterDevice stores an Expo push token for the caller.
func (h *Handler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	user, err := utils.CurrentUser(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var deviceRequest struct {
		Token      string `json:"token"`
		DeviceType string `json:"device_type"`
		DeviceName string `json:"device_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&deviceRequest); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if deviceRequest.Token == "" {
		utils.WriteError(w, http.StatusBadRequest, "Token is required")
		return
	}
	if _, err := expo.NewExponentPushToken(deviceRequest.Token); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid Expo push token format")
		return
	}

	var device models.Device
	result := h.db.Where("token = ? AND user_id = ?", deviceRequest.Token, user.ID).First(&device)
	if result.Error == nil {
		device.DeviceType = deviceRequest.DeviceType
		device.DeviceName = deviceRequest.DeviceName
		if err := h.db.Save(&device).Error; err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Error updating device")
			return
		}
	} else {
		device = models.Device{
			UserID:     user.ID,
			Token:      deviceRequest.Token,
			DeviceType: deviceRequest.DeviceType,
			DeviceName: deviceRequest.DeviceName,
		}
		if err := h.db.Create(&device).Error; err != nil {
			utils.WriteError(w, http.StatusInternalServerError, "Error registering device")
			return
		}
	}

	utils.WriteMessage(w, http.StatusOK, "Device registered successfully", map[string]interface{}{
		"device": device,
	})
}

func (h *Handler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	user, err := utils.CurrentUser(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	vars := mux.Vars(r)
	deviceID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid device ID")
		return
	}

	result := h.db.Where("id = ? AND user_id = ?", deviceID, user.ID).Delete(&models.Device{})
	if result.Error != nil {
		utils.WriteError(w, http.StatusInternalServerError, "Error deleting device")
		return
	}
	if result.RowsAffected == 0 {
		utils.WriteError(w, http.StatusNotFound, "Device not found")
		return
	}

	utils.WriteMessage(w, http.StatusOK, "Device deleted successfully", nil)
}
