package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lvaldes/gastracker/internal/domain"
	"github.com/lvaldes/gastracker/internal/repo"
)

// FuelService records fuel level observations and answers "current fuel"
// queries. Snapshots are append-only: repeated identical values produce
// repeated rows, no merging or deduplication.
type FuelService struct {
	fuel repo.FuelRepo
}

// NewFuelService constructs a FuelService backed by the provided FuelRepo.
func NewFuelService(r repo.FuelRepo) *FuelService {
	return &FuelService{fuel: r}
}

// Record appends a fuel level observation for the user.
// Returns domain.ErrValidation unless liters is a finite number >= 0.
// Upper bounds (the HTTP layer caps at 200 L) are a front-end policy, not
// enforced here.
func (s *FuelService) Record(ctx context.Context, userID int64, fuelLiters float64) (domain.FuelSnapshot, error) {
	if !isFinite(fuelLiters) || fuelLiters < 0 {
		return domain.FuelSnapshot{}, fmt.Errorf("%w: fuel liters must be zero or greater", domain.ErrValidation)
	}

	snap, err := s.fuel.Insert(ctx, userID, fuelLiters)
	if err != nil {
		return domain.FuelSnapshot{}, fmt.Errorf("service.FuelService.Record: %w", err)
	}
	return snap, nil
}

// Current returns the fuel level of the user's most recent snapshot, or nil
// when no snapshot exists. Absence is a normal state, not an error.
func (s *FuelService) Current(ctx context.Context, userID int64) (*float64, error) {
	snap, err := s.fuel.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("service.FuelService.Current: %w", err)
	}
	liters := snap.FuelLiters
	return &liters, nil
}
