// Package handler implements the HTTP handlers for the Gas Tracker API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (auth.go, trip.go, fuel.go) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lvaldes/gastracker/internal/domain"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Active(ctx context.Context, userID int64) (domain.Trip, error)
	Start(ctx context.Context, userID int64, initialFuelLiters *float64) (domain.Trip, error)
	AddPoint(ctx context.Context, tripID int64, lat, lng float64) (domain.PointResult, error)
	AddManualDistance(ctx context.Context, tripID int64, km float64) (float64, error)
	Stop(ctx context.Context, tripID int64, finalFuelLiters *float64) (domain.Trip, error)
	List(ctx context.Context, userID int64) ([]domain.Trip, error)
	Points(ctx context.Context, tripID int64, limit int) ([]domain.TripPoint, error)
}

// FuelServicer defines the fuel snapshot operations the handlers depend on.
type FuelServicer interface {
	Record(ctx context.Context, userID int64, fuelLiters float64) (domain.FuelSnapshot, error)
	Current(ctx context.Context, userID int64) (*float64, error)
}

// StatsServicer derives consumption statistics.
type StatsServicer interface {
	Stats(ctx context.Context, userID int64) (domain.FuelStats, error)
}

// AuthServicer handles signup, login, and identity lookups.
type AuthServicer interface {
	Signup(ctx context.Context, email, password string) (domain.User, string, error)
	Login(ctx context.Context, email, password string) (domain.User, string, error)
	Me(ctx context.Context, userID int64) (domain.User, error)
}

// activePointsLimit bounds how many recent points the active-trip view returns.
const activePointsLimit = 50

// Server holds the service dependencies for all API endpoints.
type Server struct {
	trips TripServicer
	fuel  FuelServicer
	stats StatsServicer
	auth  AuthServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, fuel FuelServicer, stats StatsServicer, auth AuthServicer) *Server {
	return &Server{trips: trips, fuel: fuel, stats: stats, auth: auth}
}

// Routes assembles the API router. authMW guards every route that requires
// an authenticated user; signup, login, and the health check stay public.
func (s *Server) Routes(authMW func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.Signup)
		r.Post("/login", s.Login)
		r.With(authMW).Get("/me", s.Me)
	})

	r.Route("/trips", func(r chi.Router) {
		r.Use(authMW)
		r.Get("/", s.ListTrips)
		r.Get("/active", s.ActiveTrip)
		r.Post("/start", s.StartTrip)
		r.Post("/point", s.AddPoint)
		r.Post("/distance", s.AddDistance)
		r.Post("/stop", s.StopTrip)
		r.Get("/export/csv", s.ExportCSV)
	})

	r.Route("/fuel", func(r chi.Router) {
		r.Use(authMW)
		r.Post("/snapshot", s.RecordSnapshot)
		r.Get("/stats", s.GetStats)
	})

	return r
}
