// Package service contains the business logic for the Gas Tracker core.
// Services validate inputs, enforce lifecycle rules, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/lvaldes/gastracker/internal/domain"
	"github.com/lvaldes/gastracker/internal/repo"
)

// TripService implements the trip lifecycle: start, accumulate distance,
// stop. A trip moves Active → Closed exactly once; distance can only be
// added while Active.
type TripService struct {
	trips repo.TripRepo
}

// NewTripService constructs a TripService backed by the provided TripRepo.
func NewTripService(r repo.TripRepo) *TripService {
	return &TripService{trips: r}
}

// Active returns the user's open trip.
// Returns domain.ErrNotFound when there is none.
func (s *TripService) Active(ctx context.Context, userID int64) (domain.Trip, error) {
	t, err := s.trips.Active(ctx, userID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Active: %w", err)
	}
	return t, nil
}

// Start opens a new trip for the user.
// Returns domain.ErrConflict if the user already has an open trip, and
// domain.ErrValidation if the initial fuel level is not a positive finite
// number. The database's partial unique index backs the conflict check, so
// two concurrent starts cannot both succeed.
func (s *TripService) Start(ctx context.Context, userID int64, initialFuelLiters *float64) (domain.Trip, error) {
	if err := validateOptionalFuel(initialFuelLiters); err != nil {
		return domain.Trip{}, err
	}

	if _, err := s.trips.Active(ctx, userID); err == nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Start: trip already active: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return domain.Trip{}, fmt.Errorf("service.TripService.Start: %w", err)
	}

	t, err := s.trips.Start(ctx, userID, initialFuelLiters)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Start: %w", err)
	}
	return t, nil
}

// AddPoint appends a GPS fix to an open trip. The first point contributes
// zero distance; subsequent points add the great-circle distance from the
// previous fix to the trip total.
// Returns domain.ErrValidation for out-of-range coordinates and
// domain.ErrNotFound if the trip does not exist or is closed.
func (s *TripService) AddPoint(ctx context.Context, tripID int64, lat, lng float64) (domain.PointResult, error) {
	if err := validateCoordinates(lat, lng); err != nil {
		return domain.PointResult{}, err
	}

	res, err := s.trips.AddPoint(ctx, tripID, lat, lng)
	if err != nil {
		return domain.PointResult{}, fmt.Errorf("service.TripService.AddPoint: %w", err)
	}
	return res, nil
}

// AddManualDistance adds an explicit distance delta to an open trip, for
// use when GPS points are unavailable.
// Returns domain.ErrValidation unless km is a positive finite number, and
// domain.ErrNotFound if the trip does not exist or is closed.
func (s *TripService) AddManualDistance(ctx context.Context, tripID int64, km float64) (float64, error) {
	if !isFinite(km) || km <= 0 {
		return 0, fmt.Errorf("%w: distance must be a positive number of kilometers", domain.ErrValidation)
	}

	total, err := s.trips.AddDistance(ctx, tripID, km)
	if err != nil {
		return 0, fmt.Errorf("service.TripService.AddManualDistance: %w", err)
	}
	return total, nil
}

// Stop closes an open trip, recording the end time and, when provided, the
// final fuel level. Stopping an already-closed trip is a no-op that returns
// the trip unchanged — the end timestamp and final fuel are never
// overwritten. Returns domain.ErrNotFound for an unknown trip id.
func (s *TripService) Stop(ctx context.Context, tripID int64, finalFuelLiters *float64) (domain.Trip, error) {
	if err := validateOptionalFuel(finalFuelLiters); err != nil {
		return domain.Trip{}, err
	}

	t, err := s.trips.Stop(ctx, tripID, finalFuelLiters)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Stop: %w", err)
	}
	return t, nil
}

// List returns all of the user's trips, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) List(ctx context.Context, userID int64) ([]domain.Trip, error) {
	trips, err := s.trips.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Points returns up to limit recent points for a trip, newest first.
// Always returns a non-nil slice.
func (s *TripService) Points(ctx context.Context, tripID int64, limit int) ([]domain.TripPoint, error) {
	points, err := s.trips.Points(ctx, tripID, limit)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.Points: %w", err)
	}
	if points == nil {
		return []domain.TripPoint{}, nil
	}
	return points, nil
}

// validateCoordinates enforces the latitude and longitude ranges.
func validateCoordinates(lat, lng float64) error {
	if !isFinite(lat) || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", domain.ErrValidation)
	}
	if !isFinite(lng) || lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", domain.ErrValidation)
	}
	return nil
}

// validateOptionalFuel accepts nil; a provided value must be positive and finite.
func validateOptionalFuel(liters *float64) error {
	if liters == nil {
		return nil
	}
	if !isFinite(*liters) || *liters <= 0 {
		return fmt.Errorf("%w: fuel liters must be a positive number", domain.ErrValidation)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
