// Package main is the entry point for the interactive terminal client.
// It shares the service layer and database with the API server, so a trip
// started here is visible in the web UI immediately.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"github.com/lvaldes/gastracker/internal/console"
	"github.com/lvaldes/gastracker/internal/repo"
	"github.com/lvaldes/gastracker/internal/service"
	"github.com/lvaldes/gastracker/migrations"
)

// consoleUserEmail identifies the account all console sessions act as.
// The console has no login step; it is a single-operator tool.
const consoleUserEmail = "console@user.local"

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		slog.Error("DATABASE_URL not set")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// The console always migrates on startup. Unlike the API server it is a
	// single-operator tool run by hand, so there is no rollout to coordinate.
	if err := runMigrations(dsn); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	users := repo.NewUserRepo(pool)
	trips := repo.NewTripRepo(pool)
	fuel := repo.NewFuelRepo(pool)

	// An empty password hash never matches any bcrypt comparison, so this
	// account cannot be logged into through the API.
	user, err := users.GetOrCreate(ctx, consoleUserEmail, "")
	if err != nil {
		slog.Error("failed to resolve console user", "error", err)
		os.Exit(1)
	}

	c := console.New(
		service.NewTripService(trips),
		service.NewFuelService(fuel),
		service.NewStatsService(trips, fuel),
		user.ID,
		os.Stdin,
		os.Stdout,
	)
	if err := c.Run(ctx); err != nil {
		slog.Error("console session failed", "error", err)
		os.Exit(1)
	}
}

// runMigrations applies all pending migrations from the embedded filesystem.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	_, err = provider.Up(context.Background())
	return err
}
