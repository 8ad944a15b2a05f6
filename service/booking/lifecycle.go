package booking

import (
	"time"

	"github.com/nishirajsingh/AyurSutra/cmd/models"
)

// transitions holds the only legal status edges. completed and cancelled
// are terminal.
var transitions = map[string][]string{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed: {models.BookingCompleted, models.BookingCancelled},
}

// TransitionAllowed reports whether a booking may move from one status
// to another.
func TransitionAllowed(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ActorMayTransition reports whether the acting user may request the
// transition. The practitioner on the booking (or an admin) may drive
// every legal edge; the patient on the booking may only cancel.
func ActorMayTransition(user *models.User, b *models.Booking, to string) bool {
	if user == nil || b == nil {
		return false
	}
	switch user.Role {
	case models.RoleAdmin:
		return true
	case models.RolePractitioner:
		return b.PractitionerID == user.ID
	case models.RolePatient:
		return b.PatientID == user.ID && to == models.BookingCancelled
	}
	return false
}

// startOfDay truncates to UTC midnight. Booking dates are stored as
// UTC midnight by the date parser, so day windows must be built in UTC
// or they drift by the server's zone offset.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// sameCalendarMonth reports whether two instants fall in the same
// year+month; the monthly earnings counter resets across this boundary.
func sameCalendarMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// newAverage folds one rating into a running mean.
func newAverage(oldAvg float64, oldCount int, rating int) float64 {
	return (oldAvg*float64(oldCount) + float64(rating)) / float64(oldCount+1)
}

// statusMessage renders the human-readable notification body for a
// transition.
func statusMessage(b *models.Booking, to, actorName string) (title, message, ntype, priority string) {
	date := b.Date.Format("Monday, January 2, 2006")
	switch to {
	case models.BookingConfirmed:
		return "Appointment Confirmed",
			"Your " + b.TherapyName + " session on " + date + " at " + b.TimeSlot +
				" has been confirmed by " + actorName + ". Please arrive 15 minutes early.",
			models.NotificationTypeConfirmation, models.PriorityHigh
	case models.BookingCancelled:
		reason := b.CancellationReason
		if reason == "" {
			reason = "Practitioner unavailable"
		}
		return "Appointment Cancelled",
			"Your " + b.TherapyName + " session on " + date + " at " + b.TimeSlot +
				" has been cancelled. Reason: " + reason + ". Please book a new session or contact us for assistance.",
			models.NotificationTypeCancellation, models.PriorityHigh
	case models.BookingCompleted:
		return "Session Completed",
			"Your " + b.TherapyName + " session on " + date + " is complete. " +
				"We would love to hear your feedback.",
			models.NotificationTypeFeedback, models.PriorityMedium
	}
	return "Appointment Updated",
		"Your " + b.TherapyName + " session on " + date + " at " + b.TimeSlot + " is now " + to + ".",
		models.NotificationTypeAppointment, models.PriorityMedium
}
