package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvaldes/gastracker/internal/domain"
)

func TestUserRepo_Create(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	got, err := r.users.Create(ctx, "new@example.com", "$2a$10$hash")

	require.NoError(t, err)
	assert.NotZero(t, got.ID)
	assert.Equal(t, "new@example.com", got.Email)
	assert.Equal(t, "$2a$10$hash", got.PasswordHash)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	_, err := r.users.Create(ctx, "dup@example.com", "h1")
	require.NoError(t, err)

	_, err = r.users.Create(ctx, "dup@example.com", "h2")

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUserRepo_GetByEmail(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	created := newTestUser(t, r)

	got, err := r.users.GetByEmail(ctx, created.Email)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.users.GetByEmail(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_GetByID(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()
	created := newTestUser(t, r)

	got, err := r.users.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.Email, got.Email)
}

func TestUserRepo_GetByID_NotFound(t *testing.T) {
	r := newTestRepos(t)

	_, err := r.users.GetByID(context.Background(), 999999999)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_GetOrCreate(t *testing.T) {
	r := newTestRepos(t)
	ctx := context.Background()

	first, err := r.users.GetOrCreate(ctx, "console@user.local", "")
	require.NoError(t, err)

	second, err := r.users.GetOrCreate(ctx, "console@user.local", "ignored")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "GetOrCreate must be stable for the same email")
	assert.Equal(t, "", second.PasswordHash, "existing row must not be overwritten")
}
