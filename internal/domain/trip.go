// Package domain contains the core data types for the Gas Tracker application.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler, console).
package domain

import "time"

// Trip represents a single journey. A trip is created open (EndedAt nil),
// accumulates distance while open, and is closed exactly once.
type Trip struct {
	ID                int64      `json:"id"`
	UserID            int64      `json:"user_id"`
	StartedAt         time.Time  `json:"started_at"`
	EndedAt           *time.Time `json:"ended_at,omitempty"` // nil while the trip is active
	InitialFuelLiters *float64   `json:"initial_fuel_liters,omitempty"`
	FinalFuelLiters   *float64   `json:"final_fuel_liters,omitempty"`
	TotalDistanceKm   float64    `json:"total_distance_km"`
}

// Active reports whether the trip is still open.
// At most one trip per user is active at any time.
func (t Trip) Active() bool { return t.EndedAt == nil }

// TripPoint is one GPS fix belonging to a trip. Points are immutable once
// recorded and are ordered by RecordedAt, ties broken by ID.
type TripPoint struct {
	ID         int64     `json:"id"`
	TripID     int64     `json:"trip_id"`
	RecordedAt time.Time `json:"timestamp"`
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
}

// PointResult is returned when a GPS point is appended to a trip: the stored
// point, the distance it contributed, and the trip's running total after the
// update. The first point of a trip contributes zero distance.
type PointResult struct {
	Point           TripPoint `json:"point"`
	DistanceAddedKm float64   `json:"distanceAdded"`
	TotalKm         float64   `json:"total"`
}
