package domain

import "time"

// FuelSnapshot is one timestamped observation of remaining fuel. Snapshots
// are append-only and are not tied to any trip; the most recent one is the
// user's current fuel level.
type FuelSnapshot struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	RecordedAt time.Time `json:"timestamp"`
	FuelLiters float64   `json:"fuel_liters"`
}

// FuelStats holds the derived consumption figures for a user. Pointer fields
// are nil when there is not enough data to compute them — sparse data is the
// designed degradation, not an error. Samples counts how many completed trips
// qualified for the statistics window, including trips later excluded from
// the sums for having non-positive consumption.
//
// The consumption unit convention is liters per 100 km throughout;
// ProjectedRangeKm is current fuel divided by the liters-per-km rate.
type FuelStats struct {
	CurrentFuelLiters *float64 `json:"currentFuelLiters"`
	AvgLitersPer100Km *float64 `json:"avgLitersPer100Km"`
	AvgKmPerDay       *float64 `json:"avgKmPerDay"`
	ProjectedRangeKm  *float64 `json:"projectedRangeKm"`
	ProjectedDaysLeft *float64 `json:"projectedDaysLeft"`
	Samples           int      `json:"samples"`
}
