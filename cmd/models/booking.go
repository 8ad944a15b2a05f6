package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

// Feedback is embedded in a booking and may be attached at most once,
// only after completion.
type Feedback struct {
	Rating      *int       `gorm:"column:rating" json:"rating,omitempty"`
	Comment     string     `gorm:"column:comment;size:500" json:"comment,omitempty"`
	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
}

type Booking struct {
	gorm.Model
	Reference      string    `gorm:"column:reference;size:64;uniqueIndex:idx_bookings_reference" json:"reference"`
	PatientID      uint      `gorm:"column:patient_id;not null;index" json:"patient_id"`
	PractitionerID uint      `gorm:"column:practitioner_id;not null;index" json:"practitioner_id"`
	TherapyID      uint      `gorm:"column:therapy_id;not null" json:"therapy_id"`
	TherapyName    string    `gorm:"column:therapy_name;size:255;not null" json:"therapy_name"`
	Date           time.Time `gorm:"column:date;not null" json:"date"`
	TimeSlot       string    `gorm:"column:time_slot;size:10;not null" json:"time_slot"`
	Duration       int       `gorm:"column:duration;not null;default:60" json:"duration"`
	Amount         float64   `gorm:"column:amount;not null" json:"amount"`
	Status         string    `gorm:"column:status;size:20;not null;default:pending;index" json:"status"`
	Notes          string    `gorm:"column:notes;size:500" json:"notes,omitempty"`

	Feedback Feedback `gorm:"embedded;embeddedPrefix:feedback_" json:"feedback"`

	ConfirmedAt        *time.Time `gorm:"column:confirmed_at" json:"confirmed_at,omitempty"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at" json:"cancelled_at,omitempty"`
	CancellationReason string     `gorm:"column:cancellation_reason;size:255" json:"cancellation_reason,omitempty"`
	CompletedAt        *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`

	Patient      *User    `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Practitioner *User    `gorm:"foreignKey:PractitionerID" json:"practitioner,omitempty"`
	Therapy      *Therapy `gorm:"foreignKey:TherapyID" json:"therapy,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// Reviewed reports whether feedback has already been attached.
func (b *Booking) Reviewed() bool {
	return b.Feedback.Rating != nil
}

// Terminal reports whether the booking can no longer change status.
func (b *Booking) Terminal() bool {
	return b.Status == BookingCompleted || b.Status == BookingCancelled
}
