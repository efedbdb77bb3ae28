package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/lvaldes/gastracker/internal/domain"
	"github.com/lvaldes/gastracker/internal/repo"
)

// statsTripWindow bounds the statistics sample set: the most recently
// completed trips with both fuel levels recorded and positive distance.
const statsTripWindow = 20

// minKmPerDay floors a trip's duration at distance/500 days, so trips with
// degenerate duration (near-zero, or negative from clock skew) cannot blow
// up the daily-rate divisions.
const minKmPerDay = 500

// StatsService derives consumption statistics from completed trips and the
// latest fuel snapshot. Pure read-derivation, no side effects.
type StatsService struct {
	trips repo.TripRepo
	fuel  repo.FuelRepo
}

// NewStatsService constructs a StatsService backed by the provided repos.
func NewStatsService(trips repo.TripRepo, fuel repo.FuelRepo) *StatsService {
	return &StatsService{trips: trips, fuel: fuel}
}

// Stats computes the user's consumption figures over the recent-trip window.
// Sparse data is not an error: with no snapshot and no qualifying trips the
// result has Samples == 0 and every rate field nil.
func (s *StatsService) Stats(ctx context.Context, userID int64) (domain.FuelStats, error) {
	var currentFuel *float64
	snap, err := s.fuel.Latest(ctx, userID)
	switch {
	case err == nil:
		liters := snap.FuelLiters
		currentFuel = &liters
	case errors.Is(err, domain.ErrNotFound):
		// No snapshot yet; projections that need current fuel stay nil.
	default:
		return domain.FuelStats{}, fmt.Errorf("service.StatsService.Stats: %w", err)
	}

	trips, err := s.trips.RecentCompleted(ctx, userID, statsTripWindow)
	if err != nil {
		return domain.FuelStats{}, fmt.Errorf("service.StatsService.Stats: %w", err)
	}

	return computeStats(trips, currentFuel), nil
}

// computeStats is the consumption algorithm over an already-selected window
// of completed trips. Split out as a pure function so it can be tested
// without a repo.
//
// Trips whose fuel level did not decrease are treated as refuel-contaminated
// samples: excluded from every sum but still counted in Samples, which
// reflects how many trip records qualified for consideration, not how many
// contributed.
func computeStats(trips []domain.Trip, currentFuel *float64) domain.FuelStats {
	var totalDistance, totalFuelConsumed, totalDays float64

	for _, t := range trips {
		if t.InitialFuelLiters == nil || t.FinalFuelLiters == nil || t.EndedAt == nil {
			continue // defensive; the window query already filters these
		}
		consumed := *t.InitialFuelLiters - *t.FinalFuelLiters
		if consumed <= 0 {
			continue
		}
		dist := t.TotalDistanceKm
		if dist <= 0 {
			continue
		}

		totalDistance += dist
		totalFuelConsumed += consumed
		durDays := t.EndedAt.Sub(t.StartedAt).Hours() / 24
		totalDays += math.Max(durDays, dist/minKmPerDay)
	}

	stats := domain.FuelStats{
		CurrentFuelLiters: currentFuel,
		Samples:           len(trips),
	}

	litersPerKm := safeDivide(totalFuelConsumed, totalDistance)
	if litersPerKm != nil {
		per100 := *litersPerKm * 100
		stats.AvgLitersPer100Km = &per100
	}
	stats.AvgKmPerDay = safeDivide(totalDistance, totalDays)

	if litersPerKm != nil && *litersPerKm > 0 && currentFuel != nil {
		rangeKm := *currentFuel / *litersPerKm
		stats.ProjectedRangeKm = &rangeKm
	}

	avgFuelPerDay := safeDivide(totalFuelConsumed, totalDays)
	if avgFuelPerDay != nil && *avgFuelPerDay > 0 && currentFuel != nil {
		days := *currentFuel / *avgFuelPerDay
		stats.ProjectedDaysLeft = &days
	}

	return stats
}

// safeDivide returns a/b, or nil when the denominator is zero or either
// operand is non-finite. A nil result is the designed answer for "cannot be
// computed", never an error.
func safeDivide(a, b float64) *float64 {
	if !isFinite(a) || !isFinite(b) || b == 0 {
		return nil
	}
	q := a / b
	return &q
}
