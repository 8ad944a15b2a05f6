package models

import "testing"

func TestBookingReviewed(t *testing.T) {
	b := &Booking{}
	if b.Reviewed() {
		t.Error("fresh booking reports reviewed")
	}

	rating := 4
	b.Feedback.Rating = &rating
	if !b.Reviewed() {
		t.Error("booking with rating not reported reviewed")
	}
}

func TestBookingTerminal(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{BookingPending, false},
		{BookingConfirmed, false},
		{BookingCompleted, true},
		{BookingCancelled, true},
	}

	for _, tt := range tests {
		b := &Booking{Status: tt.status}
		if got := b.Terminal(); got != tt.want {
			t.Errorf("Terminal() with status %q = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestValidTherapyCategory(t *testing.T) {
	for _, category := range TherapyCategories {
		if !ValidTherapyCategory(category) {
			t.Errorf("listed category %q rejected", category)
		}
	}
	for _, category := range []string{"", "surgery", "Panchakarma"} {
		if ValidTherapyCategory(category) {
			t.Errorf("category %q accepted", category)
		}
	}
}

func TestDefaultTherapiesAreValid(t *testing.T) {
	seen := map[string]bool{}
	for _, therapy := range DefaultTherapies() {
		if therapy.Name == "" {
			t.Error("seed therapy with empty name")
		}
		if seen[therapy.Name] {
			t.Errorf("duplicate seed therapy %q", therapy.Name)
		}
		seen[therapy.Name] = true

		if !ValidTherapyCategory(therapy.Category) {
			t.Errorf("seed therapy %q has invalid category %q", therapy.Name, therapy.Category)
		}
		if therapy.Price <= 0 || therapy.Duration <= 0 {
			t.Errorf("seed therapy %q has non-positive price or duration", therapy.Name)
		}
		if !therapy.IsActive {
			t.Errorf("seed therapy %q inactive", therapy.Name)
		}
	}
}
