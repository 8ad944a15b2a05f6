package practitioner

import (
	"reflect"
	"testing"
)

func TestAvailableSlots(t *testing.T) {
	tests := []struct {
		name     string
		template []string
		booked   []string
		want     []string
	}{
		{
			"nothing booked",
			DefaultSlots,
			nil,
			[]string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00", "17:00"},
		},
		{
			"some booked",
			DefaultSlots,
			[]string{"10:00", "15:00"},
			[]string{"09:00", "11:00", "14:00", "16:00", "17:00"},
		},
		{
			"fully booked",
			[]string{"09:00", "10:00"},
			[]string{"09:00", "10:00"},
			[]string{},
		},
		{
			"booked slot outside template is ignored",
			[]string{"09:00", "10:00"},
			[]string{"13:00"},
			[]string{"09:00", "10:00"},
		},
		{
			"duplicate booked entries",
			[]string{"09:00", "10:00", "11:00"},
			[]string{"10:00", "10:00"},
			[]string{"09:00", "11:00"},
		},
		{
			"empty template",
			[]string{},
			[]string{"09:00"},
			[]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AvailableSlots(tt.template, tt.booked)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AvailableSlots(%v, %v) = %v, want %v", tt.template, tt.booked, got, tt.want)
			}
		})
	}
}

func TestDefaultSlotsOrdered(t *testing.T) {
	for i := 1; i < len(DefaultSlots); i++ {
		if DefaultSlots[i-1] >= DefaultSlots[i] {
			t.Errorf("DefaultSlots not in ascending order at index %d: %q >= %q",
				i, DefaultSlots[i-1], DefaultSlots[i])
		}
	}
}
