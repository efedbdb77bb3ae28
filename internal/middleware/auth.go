package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lvaldes/gastracker/internal/auth"
)

type ctxKey int

const userIDKey ctxKey = iota

// NewBearerAuth returns a middleware that authenticates requests via an
// "Authorization: Bearer <token>" header. On success the verified user id is
// placed in the request context for UserID to retrieve; on failure the
// request is rejected with 401 and a stable error kind.
func NewBearerAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, "missing_authorization")
				return
			}

			scheme, token, found := strings.Cut(header, " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
				unauthorized(w, "invalid_authorization")
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				unauthorized(w, "invalid_token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id stored by NewBearerAuth.
// The second return is false when the request never passed the middleware.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// WithUserID returns a context carrying the given user id, exactly as
// NewBearerAuth would set it. Intended for handler tests.
func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

func unauthorized(w http.ResponseWriter, kind string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": kind})
}
