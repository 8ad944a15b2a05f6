package models

import (
	"gorm.io/gorm"
)

const (
	NotificationTypeAppointment  = "appointment"
	NotificationTypeConfirmation = "confirmation"
	NotificationTypeCancellation = "cancellation"
	NotificationTypeFeedback     = "feedback"
	NotificationTypeGeneral      = "general"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Notification struct {
	gorm.Model
	UserID    uint   `gorm:"column:user_id;not null;index:idx_notifications_user_read" json:"user_id"`
	Title     string `gorm:"column:title;size:255;not null" json:"title"`
	Message   string `gorm:"column:message;type:text;not null" json:"message"`
	Type      string `gorm:"column:type;size:50;not null;default:general" json:"type"`
	BookingID *uint  `gorm:"column:booking_id" json:"booking_id,omitempty"`
	IsRead    bool   `gorm:"column:is_read;default:false;index:idx_notifications_user_read" json:"is_read"`
	Priority  string `gorm:"column:priority;size:20;default:medium" json:"priority"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Device stores an Expo push token registered by a user's app.
type Device struct {
	gorm.Model
	UserID     uint   `gorm:"column:user_id;not null;index;uniqueIndex:idx_devices_token_user" json:"user_id"`
	Token      string `gorm:"column:token;not null;uniqueIndex:idx_devices_token_user" json:"token"`
	DeviceType string `gorm:"column:device_type;size:50" json:"device_type,omitempty"`
	DeviceName string `gorm:"column:device_name;size:100" json:"device_name,omitempty"`
}

func (Device) TableName() string {
	return "devices"
}
