package practitioner

// DefaultSlots is the clinic-wide slot catalog used for practitioners
// who have not configured an availability template.
var DefaultSlots = []string{"09:00", "10:00", "11:00", "14:00", "15:00", "16:00", "17:00"}

// AvailableSlots removes booked slots from the template, preserving the
// template's order.
func AvailableSlots(template []string, booked []string) []string {
	taken := make(map[string]bool, len(booked))
	for _, slot := range booked {
		taken[slot] = true
	}

	available := make([]string, 0, len(template))
	for _, slot := range template {
		if !taken[slot] {
			available = append(available, slot)
		}
	}
	return available
}
