package repo_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lvaldes/gastracker/internal/domain"
	"github.com/lvaldes/gastracker/internal/repo"
	"github.com/lvaldes/gastracker/testutil"
)

// testRepos bundles all repositories backed by one rolled-back transaction.
type testRepos struct {
	users repo.UserRepo
	trips repo.TripRepo
	fuel  repo.FuelRepo
}

var userSeq int

// newTestRepos opens a transaction against the test database and returns
// repositories backed by it. The transaction is rolled back when the test
// finishes, giving free per-test isolation. Operations that open their own
// transaction (TripRepo.AddPoint) nest as savepoints inside it.
//
// Requires TEST_DATABASE_URL to be set; migrations are applied by TestMain.
func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test — no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})

	return testRepos{
		users: repo.NewUserRepo(tx),
		trips: repo.NewTripRepo(tx),
		fuel:  repo.NewFuelRepo(tx),
	}
}

// newTestUser inserts a user with a unique email and returns it. Most trip
// and fuel tests need one to satisfy the foreign keys.
func newTestUser(t *testing.T, r testRepos) domain.User {
	t.Helper()
	userSeq++
	email := fmt.Sprintf("driver%d@example.com", userSeq)
	u, err := r.users.Create(context.Background(), email, "$2a$10$fixturehash")
	require.NoError(t, err, "create fixture user")
	return u
}

func ptr(v float64) *float64 { return &v }

// mustStart opens a trip for the user or fails the test.
func mustStart(t *testing.T, r testRepos, userID int64, initial *float64) domain.Trip {
	t.Helper()
	trip, err := r.trips.Start(context.Background(), userID, initial)
	require.NoError(t, err, "start fixture trip")
	return trip
}
