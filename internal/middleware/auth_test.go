package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lvaldes/gastracker/internal/auth"
	"github.com/lvaldes/gastracker/internal/middleware"
)

// echoUserHandler writes the user id resolved from context, or 500 if absent.
var echoUserHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]int64{"user_id": id})
})

func errorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestBearerAuth_ValidToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.Issue(42, "driver@example.com")
	require.NoError(t, err)

	h := middleware.NewBearerAuth(tokens)(echoUserHandler)

	req := httptest.NewRequest(http.MethodGet, "/trips/active", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]int64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(42), body["user_id"])
}

func TestBearerAuth_MissingHeader(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	h := middleware.NewBearerAuth(tokens)(echoUserHandler)

	req := httptest.NewRequest(http.MethodGet, "/trips/active", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing_authorization", errorKind(t, rec))
}

func TestBearerAuth_WrongScheme(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	h := middleware.NewBearerAuth(tokens)(echoUserHandler)

	req := httptest.NewRequest(http.MethodGet, "/trips/active", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_authorization", errorKind(t, rec))
}

func TestBearerAuth_BadToken(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	h := middleware.NewBearerAuth(tokens)(echoUserHandler)

	req := httptest.NewRequest(http.MethodGet, "/trips/active", nil)
	req.Header.Set("Authorization", "Bearer not.a.real.token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", errorKind(t, rec))
}

func TestUserID_AbsentFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := middleware.UserID(req.Context())

	assert.False(t, ok)
}
