package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lvaldes/gastracker/internal/domain"
)

// FuelRepo defines the persistence operations for FuelSnapshots.
// Snapshots are append-only; there is no update or delete.
type FuelRepo interface {
	// Insert appends a new fuel level observation for a user.
	Insert(ctx context.Context, userID int64, fuelLiters float64) (domain.FuelSnapshot, error)

	// Latest returns the most recent snapshot for a user.
	// Returns domain.ErrNotFound when the user has never recorded one.
	Latest(ctx context.Context, userID int64) (domain.FuelSnapshot, error)
}

type pgFuelRepo struct {
	db db
}

// NewFuelRepo constructs a FuelRepo backed by the provided db connection.
func NewFuelRepo(db db) FuelRepo {
	return &pgFuelRepo{db: db}
}

func (r *pgFuelRepo) Insert(ctx context.Context, userID int64, fuelLiters float64) (domain.FuelSnapshot, error) {
	const q = `
		INSERT INTO fuel_snapshots (user_id, fuel_liters)
		VALUES (@user_id, @fuel_liters)
		RETURNING id, user_id, recorded_at, fuel_liters`

	args := pgx.NamedArgs{"user_id": userID, "fuel_liters": fuelLiters}

	snap, err := scanSnapshot(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.FuelSnapshot{}, fmt.Errorf("repo.FuelRepo.Insert: %w", err)
	}
	return snap, nil
}

func (r *pgFuelRepo) Latest(ctx context.Context, userID int64) (domain.FuelSnapshot, error) {
	const q = `
		SELECT id, user_id, recorded_at, fuel_liters
		FROM fuel_snapshots
		WHERE user_id = @user_id
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1`

	snap, err := scanSnapshot(r.db.QueryRow(ctx, q, pgx.NamedArgs{"user_id": userID}))
	if err != nil {
		return domain.FuelSnapshot{}, fmt.Errorf("repo.FuelRepo.Latest: %w", err)
	}
	return snap, nil
}

func scanSnapshot(s scanner) (domain.FuelSnapshot, error) {
	var snap domain.FuelSnapshot
	err := s.Scan(&snap.ID, &snap.UserID, &snap.RecordedAt, &snap.FuelLiters)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FuelSnapshot{}, domain.ErrNotFound
		}
		return domain.FuelSnapshot{}, err
	}
	return snap, nil
}
