package booking

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/nishirajsingh/AyurSutra/cmd/models"
)

func TestTransitionAllowed(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending to confirmed", models.BookingPending, models.BookingConfirmed, true},
		{"pending to cancelled", models.BookingPending, models.BookingCancelled, true},
		{"pending to completed skips confirmation", models.BookingPending, models.BookingCompleted, false},
		{"confirmed to completed", models.BookingConfirmed, models.BookingCompleted, true},
		{"confirmed to cancelled", models.BookingConfirmed, models.BookingCancelled, true},
		{"confirmed back to pending", models.BookingConfirmed, models.BookingPending, false},
		{"completed is terminal", models.BookingCompleted, models.BookingCancelled, false},
		{"cancelled is terminal", models.BookingCancelled, models.BookingConfirmed, false},
		{"cancelled cannot complete", models.BookingCancelled, models.BookingCompleted, false},
		{"no self transition", models.BookingPending, models.BookingPending, false},
		{"unknown status", "archived", models.BookingCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TransitionAllowed(tt.from, tt.to); got != tt.want {
				t.Errorf("TransitionAllowed(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestActorMayTransition(t *testing.T) {
	patient := &models.User{Role: models.RolePatient}
	patient.ID = 1
	practitioner := &models.User{Role: models.RolePractitioner}
	practitioner.ID = 2
	otherPractitioner := &models.User{Role: models.RolePractitioner}
	otherPractitioner.ID = 3
	admin := &models.User{Role: models.RoleAdmin}
	admin.ID = 4

	b := &models.Booking{PatientID: 1, PractitionerID: 2, Status: models.BookingPending}

	tests := []struct {
		name string
		user *models.User
		to   string
		want bool
	}{
		{"patient may cancel own booking", patient, models.BookingCancelled, true},
		{"patient may not confirm", patient, models.BookingConfirmed, false},
		{"patient may not complete", patient, models.BookingCompleted, false},
		{"practitioner may confirm own booking", practitioner, models.BookingConfirmed, true},
		{"practitioner may cancel own booking", practitioner, models.BookingCancelled, true},
		{"other practitioner denied", otherPractitioner, models.BookingConfirmed, false},
		{"admin may do anything", admin, models.BookingCompleted, true},
		{"nil user denied", nil, models.BookingCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ActorMayTransition(tt.user, b, tt.to); got != tt.want {
				t.Errorf("ActorMayTransition(%v, %q) = %v, want %v", tt.user, tt.to, got, tt.want)
			}
		})
	}
}

// Day windows must line up with the UTC-midnight dates bookings carry,
// whatever zone the server runs in.
func TestStartOfDay(t *testing.T) {
	kolkata := time.FixedZone("IST", 5*3600+1800)

	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{
			"utc afternoon",
			time.Date(2025, 6, 2, 15, 30, 0, 0, time.UTC),
			time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		},
		{
			"early local morning is previous utc day",
			time.Date(2025, 6, 2, 3, 0, 0, 0, kolkata),
			time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"local evening same utc day",
			time.Date(2025, 6, 2, 22, 0, 0, 0, kolkata),
			time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := startOfDay(tt.in)
			if !got.Equal(tt.want) || got.Location() != time.UTC {
				t.Errorf("startOfDay(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSameCalendarMonth(t *testing.T) {
	tests := []struct {
		name string
		a    time.Time
		b    time.Time
		want bool
	}{
		{
			"same month",
			time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC),
			true,
		},
		{
			"adjacent months",
			time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC),
			time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"same month different year",
			time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"december to january",
			time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameCalendarMonth(tt.a, tt.b); got != tt.want {
				t.Errorf("sameCalendarMonth(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNewAverage(t *testing.T) {
	tests := []struct {
		name     string
		oldAvg   float64
		oldCount int
		rating   int
		want     float64
	}{
		{"first rating", 0, 0, 5, 5},
		{"second rating", 5, 1, 3, 4},
		{"third rating", 4, 2, 4, 4},
		{"fractional result", 4.5, 2, 3, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newAverage(tt.oldAvg, tt.oldCount, tt.rating)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("newAverage(%v, %d, %d) = %v, want %v", tt.oldAvg, tt.oldCount, tt.rating, got, tt.want)
			}
		})
	}
}

func TestStatusMessage(t *testing.T) {
	b := &models.Booking{
		TherapyName: "Abhyanga",
		Date:        time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		TimeSlot:    "10:00",
	}

	title, _, ntype, priority := statusMessage(b, models.BookingConfirmed, "Dr. Mehta")
	if title != "Appointment Confirmed" {
		t.Errorf("confirmed title = %q", title)
	}
	if ntype != models.NotificationTypeConfirmation {
		t.Errorf("confirmed type = %q", ntype)
	}
	if priority != models.PriorityHigh {
		t.Errorf("confirmed priority = %q", priority)
	}

	b.CancellationReason = "Power outage at the clinic"
	_, message, ntype, _ := statusMessage(b, models.BookingCancelled, "Dr. Mehta")
	if ntype != models.NotificationTypeCancellation {
		t.Errorf("cancelled type = %q", ntype)
	}
	if want := "Power outage at the clinic"; !strings.Contains(message, want) {
		t.Errorf("cancelled message %q does not mention reason %q", message, want)
	}

	_, _, ntype, priority = statusMessage(b, models.BookingCompleted, "Dr. Mehta")
	if ntype != models.NotificationTypeFeedback {
		t.Errorf("completed type = %q", ntype)
	}
	if priority != models.PriorityMedium {
		t.Errorf("completed priority = %q", priority)
	}
}
