package utils

import (
	"github.com/nishirajsingh/AyurSutra/cmd/models"
)

// Action names a capability checked once per request instead of ad-hoc
// role comparisons inside handlers.
type Action string

const (
	ActionViewBooking   Action = "booking:view"
	ActionManageCatalog Action = "catalog:manage"
	ActionManageUsers   Action = "users:manage"
	ActionViewPlatform  Action = "platform:view"
)

// Can reports whether a user may perform an action. owner indicates
// whether the user is a party to the resource (patient or practitioner
// on a booking).
func Can(user *models.User, action Action, owner bool) bool {
	if user == nil {
		return false
	}
	if user.Role == models.RoleAdmin {
		return true
	}
	switch action {
	case ActionViewBooking:
		return owner
	case ActionManageCatalog, ActionManageUsers, ActionViewPlatform:
		return false
	}
	return false
}

// OwnsBooking reports whether the user is a party to the booking.
func OwnsBooking(user *models.User, b *models.Booking) bool {
	if user == nil || b == nil {
		return false
	}
	switch user.Role {
	case models.RolePatient:
		return b.PatientID == user.ID
	case models.RolePractitioner:
		return b.PractitionerID == user.ID
	}
	return false
}
