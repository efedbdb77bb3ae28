package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvaldes/gastracker/internal/auth"
	"github.com/lvaldes/gastracker/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := auth.NewTokenManager("test-secret", time.Hour)

	token, err := m.Issue(42, "driver@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "driver@example.com", claims.Email)
}

func TestTokenManager_UniqueTokens(t *testing.T) {
	m := auth.NewTokenManager("test-secret", time.Hour)

	a, err := m.Issue(1, "a@example.com")
	require.NoError(t, err)
	b, err := m.Issue(1, "a@example.com")
	require.NoError(t, err)

	// jti makes consecutive tokens for the same user distinct.
	assert.NotEqual(t, a, b)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := auth.NewTokenManager("secret-one", time.Hour)
	verifier := auth.NewTokenManager("secret-two", time.Hour)

	token, err := issuer.Issue(7, "x@example.com")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokenManager_Expired(t *testing.T) {
	m := auth.NewTokenManager("test-secret", -time.Minute)

	token, err := m.Issue(7, "x@example.com")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTokenManager_Garbage(t *testing.T) {
	m := auth.NewTokenManager("test-secret", time.Hour)

	_, err := m.Verify("not.a.token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = m.Verify("")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
