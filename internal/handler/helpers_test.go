package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lvaldes/gastracker/internal/domain"
	"github.com/lvaldes/gastracker/internal/handler"
	"github.com/lvaldes/gastracker/internal/middleware"
)

// testUserID is the user every request is authenticated as in handler tests.
const testUserID int64 = 7

// testAuth stands in for the bearer-token middleware, injecting a fixed user
// into the request context the same way middleware.NewBearerAuth does.
func testAuth(uid int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), uid)))
		})
	}
}

// newHTTPHandler wires a Server with the given mocks into the real router,
// mirroring how main.go wires it in production. Pass nil for servicers the
// test does not exercise.
func newHTTPHandler(trips handler.TripServicer, fuel handler.FuelServicer, stats handler.StatsServicer, auth handler.AuthServicer) http.Handler {
	srv := handler.NewServer(trips, fuel, stats, auth)
	return srv.Routes(testAuth(testUserID))
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func ptr(v float64) *float64 { return &v }

func activeTripFixture() domain.Trip {
	initial := 50.0
	return domain.Trip{
		ID:                101,
		UserID:            testUserID,
		StartedAt:         time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		InitialFuelLiters: &initial,
		TotalDistanceKm:   12.5,
	}
}

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	active            func(ctx context.Context, userID int64) (domain.Trip, error)
	start             func(ctx context.Context, userID int64, initialFuelLiters *float64) (domain.Trip, error)
	addPoint          func(ctx context.Context, tripID int64, lat, lng float64) (domain.PointResult, error)
	addManualDistance func(ctx context.Context, tripID int64, km float64) (float64, error)
	stop              func(ctx context.Context, tripID int64, finalFuelLiters *float64) (domain.Trip, error)
	list              func(ctx context.Context, userID int64) ([]domain.Trip, error)
	points            func(ctx context.Context, tripID int64, limit int) ([]domain.TripPoint, error)
}

func (m *mockTripServicer) Active(ctx context.Context, userID int64) (domain.Trip, error) {
	return m.active(ctx, userID)
}
func (m *mockTripServicer) Start(ctx context.Context, userID int64, initialFuelLiters *float64) (domain.Trip, error) {
	return m.start(ctx, userID, initialFuelLiters)
}
func (m *mockTripServicer) AddPoint(ctx context.Context, tripID int64, lat, lng float64) (domain.PointResult, error) {
	return m.addPoint(ctx, tripID, lat, lng)
}
func (m *mockTripServicer) AddManualDistance(ctx context.Context, tripID int64, km float64) (float64, error) {
	return m.addManualDistance(ctx, tripID, km)
}
func (m *mockTripServicer) Stop(ctx context.Context, tripID int64, finalFuelLiters *float64) (domain.Trip, error) {
	return m.stop(ctx, tripID, finalFuelLiters)
}
func (m *mockTripServicer) List(ctx context.Context, userID int64) ([]domain.Trip, error) {
	return m.list(ctx, userID)
}
func (m *mockTripServicer) Points(ctx context.Context, tripID int64, limit int) ([]domain.TripPoint, error) {
	return m.points(ctx, tripID, limit)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

// mockFuelServicer is a test double for handler.FuelServicer.
type mockFuelServicer struct {
	record  func(ctx context.Context, userID int64, fuelLiters float64) (domain.FuelSnapshot, error)
	current func(ctx context.Context, userID int64) (*float64, error)
}

func (m *mockFuelServicer) Record(ctx context.Context, userID int64, fuelLiters float64) (domain.FuelSnapshot, error) {
	return m.record(ctx, userID, fuelLiters)
}
func (m *mockFuelServicer) Current(ctx context.Context, userID int64) (*float64, error) {
	return m.current(ctx, userID)
}

var _ handler.FuelServicer = (*mockFuelServicer)(nil)

// mockStatsServicer is a test double for handler.StatsServicer.
type mockStatsServicer struct {
	stats func(ctx context.Context, userID int64) (domain.FuelStats, error)
}

func (m *mockStatsServicer) Stats(ctx context.Context, userID int64) (domain.FuelStats, error) {
	return m.stats(ctx, userID)
}

var _ handler.StatsServicer = (*mockStatsServicer)(nil)

// mockAuthServicer is a test double for handler.AuthServicer.
type mockAuthServicer struct {
	signup func(ctx context.Context, email, password string) (domain.User, string, error)
	login  func(ctx context.Context, email, password string) (domain.User, string, error)
	me     func(ctx context.Context, userID int64) (domain.User, error)
}

func (m *mockAuthServicer) Signup(ctx context.Context, email, password string) (domain.User, string, error) {
	return m.signup(ctx, email, password)
}
func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	return m.login(ctx, email, password)
}
func (m *mockAuthServicer) Me(ctx context.Context, userID int64) (domain.User, error) {
	return m.me(ctx, userID)
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)
