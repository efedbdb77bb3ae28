package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/lvaldes/gastracker/internal/middleware"
)

// errorResponse is the JSON error body. Error carries a stable machine-
// readable kind string; Message is the human-readable detail.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError writes a JSON error body with a stable error kind.
func respondError(w http.ResponseWriter, status int, kind, message string) {
	respondJSON(w, status, errorResponse{Error: kind, Message: message})
}

// respondValidation maps a domain.ErrValidation failure to a 400 with the
// "validation" kind, extracting the human-readable part of the message.
func respondValidation(w http.ResponseWriter, err error) {
	respondError(w, http.StatusBadRequest, "validation", unwrapMessage(err))
}

// respondInternal reports an unexpected infrastructure failure. Detail stays
// in the server log; the client gets the stable "db_error" kind the API has
// always used for storage-layer failures.
func respondInternal(w http.ResponseWriter) {
	respondError(w, http.StatusInternalServerError, "db_error", "internal error")
}

// decodeJSON decodes the request body into dst. An entirely empty body is
// allowed and leaves dst zero-valued, so endpoints whose fields are all
// optional accept bare POSTs.
func decodeJSON(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// userID resolves the authenticated user from the request context.
// A false return means the route was wired without the auth middleware;
// the caller should treat it as unauthorized.
func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := middleware.UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
	}
	return id, ok
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel
// error, e.g. "service.TripService.AddPoint: validation error: latitude must
// be between -90 and 90" becomes "latitude must be between -90 and 90".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	const marker = "validation error: "
	if i := strings.LastIndex(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return msg
}
