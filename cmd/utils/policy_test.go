package utils

import (
	"testing"

	"github.com/nishirajsingh/AyurSutra/cmd/models"
)

func userWithRole(id uint, role string) *models.User {
	u := &models.User{Role: role}
	u.ID = id
	return u
}

func TestCan(t *testing.T) {
	admin := userWithRole(1, models.RoleAdmin)
	patient := userWithRole(2, models.RolePatient)
	practitioner := userWithRole(3, models.RolePractitioner)

	tests := []struct {
		name   string
		user   *models.User
		action Action
		owner  bool
		want   bool
	}{
		{"admin views any booking", admin, ActionViewBooking, false, true},
		{"admin manages catalog", admin, ActionManageCatalog, false, true},
		{"admin manages users", admin, ActionManageUsers, false, true},
		{"patient views own booking", patient, ActionViewBooking, true, true},
		{"patient denied foreign booking", patient, ActionViewBooking, false, false},
		{"patient denied catalog", patient, ActionManageCatalog, true, false},
		{"practitioner views own booking", practitioner, ActionViewBooking, true, true},
		{"practitioner denied platform view", practitioner, ActionViewPlatform, true, false},
		{"nil user denied", nil, ActionViewBooking, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Can(tt.user, tt.action, tt.owner); got != tt.want {
				t.Errorf("Can(%v, %q, %v) = %v, want %v", tt.user, tt.action, tt.owner, got, tt.want)
			}
		})
	}
}

func TestOwnsBooking(t *testing.T) {
	b := &models.Booking{PatientID: 10, PractitionerID: 20}

	tests := []struct {
		name string
		user *models.User
		want bool
	}{
		{"booking patient", userWithRole(10, models.RolePatient), true},
		{"other patient", userWithRole(11, models.RolePatient), false},
		{"booking practitioner", userWithRole(20, models.RolePractitioner), true},
		{"other practitioner", userWithRole(21, models.RolePractitioner), false},
		{"admin does not own", userWithRole(10, models.RoleAdmin), false},
		{"nil user", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OwnsBooking(tt.user, b); got != tt.want {
				t.Errorf("OwnsBooking(%v) = %v, want %v", tt.user, got, tt.want)
			}
		})
	}
}
