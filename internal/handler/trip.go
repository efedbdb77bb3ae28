package handler

import (
	"errors"
	"net/http"

	"github.com/lvaldes/gastracker/internal/domain"
)

type startTripRequest struct {
	InitialFuelLiters *float64 `json:"initialFuelLiters"`
}

type addPointRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type addDistanceRequest struct {
	DistanceKm *float64 `json:"distanceKm"`
}

type stopTripRequest struct {
	FinalFuelLiters *float64 `json:"finalFuelLiters"`
}

type activeTripResponse struct {
	Active *domain.Trip       `json:"active"`
	Points []domain.TripPoint `json:"points,omitempty"`
}

// ActiveTrip returns the caller's open trip plus its most recent points,
// or {"active": null} when no trip is in progress.
func (s *Server) ActiveTrip(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	trip, err := s.trips.Active(r.Context(), uid)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusOK, activeTripResponse{Active: nil})
		return
	case err != nil:
		respondInternal(w)
		return
	}

	points, err := s.trips.Points(r.Context(), trip.ID, activePointsLimit)
	if err != nil {
		respondInternal(w)
		return
	}
	respondJSON(w, http.StatusOK, activeTripResponse{Active: &trip, Points: points})
}

// StartTrip opens a new trip for the caller. The body is optional; when
// present it may carry the initial fuel level.
func (s *Server) StartTrip(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req startTripRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "validation", "invalid JSON body")
		return
	}

	trip, err := s.trips.Start(r.Context(), uid, req.InitialFuelLiters)
	switch {
	case err == nil:
		respondJSON(w, http.StatusCreated, map[string]domain.Trip{"trip": trip})
	case errors.Is(err, domain.ErrConflict):
		respondError(w, http.StatusConflict, "trip_active", "a trip is already in progress")
	case errors.Is(err, domain.ErrValidation):
		respondValidation(w, err)
	default:
		respondInternal(w)
	}
}

// AddPoint appends a GPS fix to the caller's active trip and returns the
// stored point together with the distance delta and the running total.
func (s *Server) AddPoint(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req addPointRequest
	if err := decodeJSON(r, &req); err != nil || req.Lat == nil || req.Lng == nil {
		respondError(w, http.StatusBadRequest, "validation", "lat and lng are required numbers")
		return
	}

	trip, err := s.trips.Active(r.Context(), uid)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "no_active_trip", "no trip in progress")
		return
	case err != nil:
		respondInternal(w)
		return
	}

	result, err := s.trips.AddPoint(r.Context(), trip.ID, *req.Lat, *req.Lng)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, result)
	case errors.Is(err, domain.ErrValidation):
		respondValidation(w, err)
	case errors.Is(err, domain.ErrNotFound):
		// The trip closed between the lookup and the insert.
		respondError(w, http.StatusNotFound, "no_active_trip", "no trip in progress")
	default:
		respondInternal(w)
	}
}

// AddDistance adds a manually measured distance to the caller's active trip,
// for legs recorded without GPS coverage.
func (s *Server) AddDistance(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req addDistanceRequest
	if err := decodeJSON(r, &req); err != nil || req.DistanceKm == nil {
		respondError(w, http.StatusBadRequest, "validation", "distanceKm is a required number")
		return
	}

	trip, err := s.trips.Active(r.Context(), uid)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "no_active_trip", "no trip in progress")
		return
	case err != nil:
		respondInternal(w)
		return
	}

	total, err := s.trips.AddManualDistance(r.Context(), trip.ID, *req.DistanceKm)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]float64{"total": total})
	case errors.Is(err, domain.ErrValidation):
		respondValidation(w, err)
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "no_active_trip", "no trip in progress")
	default:
		respondInternal(w)
	}
}

// StopTrip closes the caller's active trip, optionally recording the fuel
// level at the end of the trip.
func (s *Server) StopTrip(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	var req stopTripRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "validation", "invalid JSON body")
		return
	}

	trip, err := s.trips.Active(r.Context(), uid)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "no_active_trip", "no trip in progress")
		return
	case err != nil:
		respondInternal(w)
		return
	}

	stopped, err := s.trips.Stop(r.Context(), trip.ID, req.FinalFuelLiters)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]domain.Trip{"trip": stopped})
	case errors.Is(err, domain.ErrValidation):
		respondValidation(w, err)
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "no_active_trip", "no trip in progress")
	default:
		respondInternal(w)
	}
}

// ListTrips returns all of the caller's trips, newest first.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	trips, err := s.trips.List(r.Context(), uid)
	if err != nil {
		respondInternal(w)
		return
	}
	respondJSON(w, http.StatusOK, map[string][]domain.Trip{"trips": trips})
}
