// Package main is the entry point for the Gas Tracker API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"

	"github.com/lvaldes/gastracker/internal/auth"
	"github.com/lvaldes/gastracker/internal/config"
	"github.com/lvaldes/gastracker/internal/handler"
	"github.com/lvaldes/gastracker/internal/middleware"
	"github.com/lvaldes/gastracker/internal/repo"
	"github.com/lvaldes/gastracker/internal/service"
	"github.com/lvaldes/gastracker/migrations"
)

// maxBodyBytes caps request bodies. The largest legitimate payload is a
// signup request; nothing this API accepts comes close to a megabyte.
const maxBodyBytes = 1 << 20

func main() {
	migrate := flag.Bool("migrate", false, "run pending database migrations before serving")
	flag.Parse()

	// .env is a developer convenience; in production the variables come from
	// the environment and the file simply does not exist.
	_ = godotenv.Load()

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	// log/slog is the stdlib structured logger introduced in Go 1.21.
	// JSON handler writes machine-readable output suitable for log aggregators.
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// pgxpool manages a pool of Postgres connections.
	// New() does not open connections immediately — the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic. The retry covers
	// the common docker-compose race where Postgres is still starting.
	backoff := retry.WithMaxRetries(5, retry.NewExponential(500*time.Millisecond))
	err = retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			slog.Warn("database not ready, retrying", "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if *migrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			slog.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations applied")
	}

	// --- Wiring -----------------------------------------------------------
	users := repo.NewUserRepo(pool)
	trips := repo.NewTripRepo(pool)
	fuel := repo.NewFuelRepo(pool)

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	tripSvc := service.NewTripService(trips)
	fuelSvc := service.NewFuelService(fuel)
	statsSvc := service.NewStatsService(trips, fuel)
	authSvc := service.NewAuthService(users, tokens)

	srv := handler.NewServer(tripSvc, fuelSvc, statsSvc, authSvc)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer.
	// RequestID generates a unique trace ID per request.
	// RealIP sets r.RemoteAddr from X-Forwarded-For / X-Real-IP (safe behind a proxy).
	// SlogLogger writes one structured JSON log line per request.
	// Recoverer catches panics and returns HTTP 500 instead of crashing.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxBodyBytes))

	r.Mount("/", srv.Routes(middleware.NewBearerAuth(tokens)))

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runMigrations applies all pending migrations from the embedded filesystem.
// goose needs database/sql, not a pgx pool, so it gets its own connection.
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
