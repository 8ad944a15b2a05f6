package models

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Therapy struct {
	gorm.Model
	Name        string         `gorm:"column:name;size:255;not null;uniqueIndex:idx_therapies_name" json:"name"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	Duration    int            `gorm:"column:duration;not null" json:"duration"`
	Price       float64        `gorm:"column:price;not null" json:"price"`
	Category    string         `gorm:"column:category;size:50;not null" json:"category"`
	Benefits    pq.StringArray `gorm:"column:benefits;type:text[]" json:"benefits,omitempty"`
	IsActive    bool           `gorm:"column:is_active;default:true" json:"is_active"`
}

func (Therapy) TableName() string {
	return "therapies"
}

// TherapyCategories lists the catalog categories accepted at creation.
var TherapyCategories = []string{
	"panchakarma", "massage", "consultation", "herbal-treatment", "yoga-therapy",
}

func ValidTherapyCategory(category string) bool {
	for _, c := range TherapyCategories {
		if c == category {
			return true
		}
	}
	return false
}

// DefaultTherapies is the catalog installed by the seed command.
func DefaultTherapies() []Therapy {
	return []Therapy{
		{
			Name:        "Abhyanga",
			Description: "Full-body warm oil massage to improve circulation and calm the nervous system.",
			Duration:    60,
			Price:       1500,
			Category:    "massage",
			Benefits:    pq.StringArray{"Improved circulation", "Stress relief", "Better sleep"},
			IsActive:    true,
		},
		{
			Name:        "Shirodhara",
			Description: "Continuous stream of warm oil poured over the forehead.",
			Duration:    45,
			Price:       2000,
			Category:    "panchakarma",
			Benefits:    pq.StringArray{"Mental clarity", "Anxiety relief"},
			IsActive:    true,
		},
		{
			Name:        "Panchakarma Detox",
			Description: "Complete five-fold detoxification program.",
			Duration:    90,
			Price:       3500,
			Category:    "panchakarma",
			Benefits:    pq.StringArray{"Deep detoxification", "Immunity boost"},
			IsActive:    true,
		},
		{
			Name:        "Ayurvedic Consultation",
			Description: "One-on-one assessment of constitution and current imbalances.",
			Duration:    30,
			Price:       1000,
			Category:    "consultation",
			Benefits:    pq.StringArray{"Personalized treatment plan"},
			IsActive:    true,
		},
		{
			Name:        "Herbal Steam Therapy",
			Description: "Medicated steam bath following oil application.",
			Duration:    30,
			Price:       800,
			Category:    "herbal-treatment",
			Benefits:    pq.StringArray{"Opens channels", "Relieves stiffness"},
			IsActive:    true,
		},
		{
			Name:        "Yoga Therapy Session",
			Description: "Guided therapeutic yoga tailored to the patient's condition.",
			Duration:    60,
			Price:       1200,
			Category:    "yoga-therapy",
			Benefits:    pq.StringArray{"Flexibility", "Breath control", "Pain management"},
			IsActive:    true,
		},
	}
}
