package service

import (
	"strconv"
	"time"

	"github.com/lvaldes/gastracker/internal/domain"
)

// TripCSVHeader is the column row written first in any trips CSV export.
// Both the HTTP download and the console file export use it, so the two
// front ends produce identical files.
var TripCSVHeader = []string{
	"id", "user_id", "started_at", "ended_at",
	"initial_fuel_liters", "final_fuel_liters", "total_distance_km",
}

// TripCSVRecord encodes one trip as a flat string slice in header order.
// Absent optional fields render as empty strings, never "null" or "None".
func TripCSVRecord(t domain.Trip) []string {
	return []string{
		strconv.FormatInt(t.ID, 10),
		strconv.FormatInt(t.UserID, 10),
		t.StartedAt.UTC().Format(time.RFC3339),
		formatOptionalTime(t.EndedAt),
		formatOptionalFloat(t.InitialFuelLiters),
		formatOptionalFloat(t.FinalFuelLiters),
		strconv.FormatFloat(t.TotalDistanceKm, 'f', -1, 64),
	}
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
