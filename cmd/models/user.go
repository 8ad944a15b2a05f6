package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	RolePatient      = "patient"
	RolePractitioner = "practitioner"
	RoleAdmin        = "admin"
)

type User struct {
	gorm.Model
	Name         string `gorm:"column:name;size:255;not null" json:"name"`
	Email        string `gorm:"column:email;size:255;not null;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash string `gorm:"column:password_hash;size:255;not null" json:"-"`
	Role         string `gorm:"column:role;size:50;not null;default:patient" json:"role"`
	Phone        string `gorm:"column:phone;size:20" json:"phone,omitempty"`
	Address      string `gorm:"column:address;size:255" json:"address,omitempty"`

	// Patient profile
	DateOfBirth *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Gender      string     `gorm:"column:gender;size:20" json:"gender,omitempty"`
	Age         int        `gorm:"column:age" json:"age,omitempty"`

	// Practitioner profile
	Specialization  string  `gorm:"column:specialization;size:255" json:"specialization,omitempty"`
	Experience      int     `gorm:"column:experience" json:"experience,omitempty"`
	Qualification   string  `gorm:"column:qualification;size:255" json:"qualification,omitempty"`
	ConsultationFee float64 `gorm:"column:consultation_fee;default:1000" json:"consultation_fee,omitempty"`

	// Running rating aggregate, updated incrementally on feedback
	Rating       float64 `gorm:"column:rating;default:0" json:"rating"`
	TotalRatings int     `gorm:"column:total_ratings;default:0" json:"total_ratings"`

	// Earnings accumulate on booking completion; the monthly counter
	// resets when the month rolls over
	TotalEarnings     float64    `gorm:"column:total_earnings;default:0" json:"total_earnings,omitempty"`
	MonthlyEarnings   float64    `gorm:"column:monthly_earnings;default:0" json:"monthly_earnings,omitempty"`
	EarningsUpdatedAt *time.Time `gorm:"column:earnings_updated_at" json:"earnings_updated_at,omitempty"`

	// Weekly availability template; empty slots fall back to the default
	// slot catalog
	AvailabilityDays  pq.StringArray `gorm:"column:availability_days;type:text[]" json:"availability_days,omitempty"`
	AvailabilitySlots pq.StringArray `gorm:"column:availability_slots;type:text[]" json:"availability_slots,omitempty"`

	IsActive  bool       `gorm:"column:is_active;default:true" json:"is_active"`
	LastLogin *time.Time `gorm:"column:last_login" json:"last_login,omitempty"`
}

func (User) TableName() string {
	return "users"
}
