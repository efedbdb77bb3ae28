package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvaldes/gastracker/internal/domain"
)

func TestFuelRepo_Insert(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	user := newTestUser(t, r)

	got, err := r.fuel.Insert(ctx, user.ID, 47.5)

	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, user.ID, got.UserID)
	assert.Equal(t, 47.5, got.FuelLiters)
	assert.False(t, got.RecordedAt.IsZero(), "RecordedAt should be set by DB")
}

func TestFuelRepo_Latest(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	user := newTestUser(t, r)

	_, err := r.fuel.Insert(ctx, user.ID, 50)
	require.NoError(t, err)
	second, err := r.fuel.Insert(ctx, user.ID, 42)
	require.NoError(t, err)

	got, err := r.fuel.Latest(ctx, user.ID)

	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID, "Latest must return the most recent snapshot")
	assert.Equal(t, 42.0, got.FuelLiters)
}

func TestFuelRepo_Latest_NoSnapshots(t *testing.T) {
	r := newTestRepos(t)
	user := newTestUser(t, r)

	_, err := r.fuel.Latest(context.Background(), user.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFuelRepo_Latest_ScopedToUser(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	alice := newTestUser(t, r)
	bob := newTestUser(t, r)

	_, err := r.fuel.Insert(ctx, alice.ID, 60)
	require.NoError(t, err)

	_, err = r.fuel.Latest(ctx, bob.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
