package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lvaldes/gastracker/internal/domain"
	"github.com/lvaldes/gastracker/internal/geo"
)

// TripRepo defines the persistence operations for Trips and TripPoints.
type TripRepo interface {
	// Active returns the open trip for a user, most recently started first
	// if more than one somehow exists. Returns domain.ErrNotFound when the
	// user has no open trip.
	Active(ctx context.Context, userID int64) (domain.Trip, error)

	// Start inserts a new open trip. The partial unique index on open trips
	// is the arbiter under concurrency: a second insert for the same user
	// fails, and Start maps that to domain.ErrConflict.
	Start(ctx context.Context, userID int64, initialFuelLiters *float64) (domain.Trip, error)

	// GetByID retrieves a trip by primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Trip, error)

	// AddPoint appends a GPS fix to an open trip and increments the trip's
	// total distance by the haversine distance from the previous point.
	// The read-compute-write sequence runs in one transaction with the trip
	// row locked, so concurrent calls on the same trip serialize.
	// Returns domain.ErrNotFound if the trip does not exist or is closed.
	AddPoint(ctx context.Context, tripID int64, lat, lng float64) (domain.PointResult, error)

	// AddDistance adds a manual distance delta to an open trip and returns
	// the new total. Returns domain.ErrNotFound if the trip does not exist
	// or is closed.
	AddDistance(ctx context.Context, tripID int64, km float64) (float64, error)

	// Stop closes an open trip, setting ended_at and optionally the final
	// fuel level. Calling Stop on an already-closed trip is a no-op that
	// returns the stored trip unchanged. Returns domain.ErrNotFound if the
	// trip does not exist at all.
	Stop(ctx context.Context, tripID int64, finalFuelLiters *float64) (domain.Trip, error)

	// ListByUser returns all trips for a user, newest first.
	ListByUser(ctx context.Context, userID int64) ([]domain.Trip, error)

	// Points returns up to limit points for a trip, newest first.
	Points(ctx context.Context, tripID int64, limit int) ([]domain.TripPoint, error)

	// RecentCompleted returns up to limit completed trips that qualify for
	// the statistics window: ended, both fuel levels recorded, and positive
	// distance. Ordered by ended_at descending.
	RecentCompleted(ctx context.Context, userID int64, limit int) ([]domain.Trip, error)
}

type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, user_id, started_at, ended_at, initial_fuel_liters, final_fuel_liters, total_distance_km`

func (r *pgTripRepo) Active(ctx context.Context, userID int64) (domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = @user_id AND ended_at IS NULL
		ORDER BY started_at DESC
		LIMIT 1`

	t, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Active: %w", err)
	}
	return t, nil
}

func (r *pgTripRepo) Start(ctx context.Context, userID int64, initialFuelLiters *float64) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (user_id, initial_fuel_liters)
		VALUES (@user_id, @initial_fuel_liters)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"user_id":             userID,
		"initial_fuel_liters": initialFuelLiters, // nil becomes NULL
	}

	t, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Start: %w", domain.ErrConflict)
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Start: %w", err)
	}
	return t, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id int64) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	t, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return t, nil
}

func (r *pgTripRepo) AddPoint(ctx context.Context, tripID int64, lat, lng float64) (domain.PointResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.PointResult{}, fmt.Errorf("repo.TripRepo.AddPoint: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck — no-op after commit

	// Lock the trip row for the duration of the transaction so two concurrent
	// point insertions on the same trip cannot both read the same "last point"
	// and drop an increment.
	const lockQ = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id FOR UPDATE`

	trip, err := scanTrip(tx.QueryRow(ctx, lockQ, pgx.NamedArgs{"id": tripID}))
	if err != nil {
		return domain.PointResult{}, fmt.Errorf("repo.TripRepo.AddPoint: %w", err)
	}
	if !trip.Active() {
		return domain.PointResult{}, fmt.Errorf("repo.TripRepo.AddPoint: trip closed: %w", domain.ErrNotFound)
	}

	const lastQ = `
		SELECT id, trip_id, recorded_at, lat, lng
		FROM trip_points
		WHERE trip_id = @trip_id
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1`

	var distanceAdded float64
	last, err := scanPoint(tx.QueryRow(ctx, lastQ, pgx.NamedArgs{"trip_id": tripID}))
	switch {
	case err == nil:
		distanceAdded = geo.DistanceKm(last.Lat, last.Lng, lat, lng)
	case errors.Is(err, domain.ErrNotFound):
		// First point of the trip contributes no distance.
	default:
		return domain.PointResult{}, fmt.Errorf("repo.TripRepo.AddPoint: last point: %w", err)
	}

	const insertQ = `
		INSERT INTO trip_points (trip_id, lat, lng)
		VALUES (@trip_id, @lat, @lng)
		RETURNING id, trip_id, recorded_at, lat, lng`

	point, err := scanPoint(tx.QueryRow(ctx, insertQ, pgx.NamedArgs{
		"trip_id": tripID,
		"lat":     lat,
		"lng":     lng,
	}))
	if err != nil {
		return domain.PointResult{}, fmt.Errorf("repo.TripRepo.AddPoint: insert: %w", err)
	}

	total := trip.TotalDistanceKm
	if distanceAdded > 0 {
		const updateQ = `
			UPDATE trips
			SET total_distance_km = total_distance_km + @delta
			WHERE id = @id
			RETURNING total_distance_km`

		err = tx.QueryRow(ctx, updateQ, pgx.NamedArgs{"delta": distanceAdded, "id": tripID}).Scan(&total)
		if err != nil {
			return domain.PointResult{}, fmt.Errorf("repo.TripRepo.AddPoint: update total: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.PointResult{}, fmt.Errorf("repo.TripRepo.AddPoint: commit: %w", err)
	}

	return domain.PointResult{Point: point, DistanceAddedKm: distanceAdded, TotalKm: total}, nil
}

func (r *pgTripRepo) AddDistance(ctx context.Context, tripID int64, km float64) (float64, error) {
	const q = `
		UPDATE trips
		SET total_distance_km = total_distance_km + @delta
		WHERE id = @id AND ended_at IS NULL
		RETURNING total_distance_km`

	var total float64
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"delta": km, "id": tripID}).Scan(&total)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("repo.TripRepo.AddDistance: %w", domain.ErrNotFound)
		}
		return 0, fmt.Errorf("repo.TripRepo.AddDistance: %w", err)
	}
	return total, nil
}

func (r *pgTripRepo) Stop(ctx context.Context, tripID int64, finalFuelLiters *float64) (domain.Trip, error) {
	// The WHERE guard makes Stop idempotent: a second call matches no rows
	// and must not overwrite ended_at or the final fuel level.
	const q = `
		UPDATE trips
		SET ended_at = now(),
		    final_fuel_liters = COALESCE(@final_fuel_liters, final_fuel_liters)
		WHERE id = @id AND ended_at IS NULL
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{"id": tripID, "final_fuel_liters": finalFuelLiters}

	t, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Stop: %w", err)
	}

	// No open row matched — either the trip is already closed (return it
	// unchanged) or it does not exist (GetByID yields ErrNotFound).
	return r.GetByID(ctx, tripID)
}

func (r *pgTripRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = @user_id
		ORDER BY started_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	return collectTrips(rows)
}

func (r *pgTripRepo) Points(ctx context.Context, tripID int64, limit int) ([]domain.TripPoint, error) {
	const q = `
		SELECT id, trip_id, recorded_at, lat, lng
		FROM trip_points
		WHERE trip_id = @trip_id
		ORDER BY recorded_at DESC, id DESC
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.Points: %w", err)
	}
	defer rows.Close()

	var points []domain.TripPoint
	for rows.Next() {
		p, err := scanPoint(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.Points: scan: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.Points: rows: %w", err)
	}
	return points, nil
}

func (r *pgTripRepo) RecentCompleted(ctx context.Context, userID int64, limit int) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = @user_id
		  AND ended_at IS NOT NULL
		  AND initial_fuel_liters IS NOT NULL
		  AND final_fuel_liters IS NOT NULL
		  AND total_distance_km > 0
		ORDER BY ended_at DESC
		LIMIT @limit`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID, "limit": limit})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.RecentCompleted: %w", err)
	}
	defer rows.Close()

	return collectTrips(rows)
}

func collectTrips(rows pgx.Rows) ([]domain.Trip, error) {
	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo: scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo: trip rows: %w", err)
	}
	return trips, nil
}

// scanTrip maps a single database row into a domain.Trip.
// Nullable columns scan into pointer fields; pgx leaves them nil for NULL.
func scanTrip(s scanner) (domain.Trip, error) {
	var t domain.Trip
	err := s.Scan(&t.ID, &t.UserID, &t.StartedAt, &t.EndedAt,
		&t.InitialFuelLiters, &t.FinalFuelLiters, &t.TotalDistanceKm)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}
	return t, nil
}

func scanPoint(s scanner) (domain.TripPoint, error) {
	var p domain.TripPoint
	err := s.Scan(&p.ID, &p.TripID, &p.RecordedAt, &p.Lat, &p.Lng)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripPoint{}, domain.ErrNotFound
		}
		return domain.TripPoint{}, err
	}
	return p, nil
}
