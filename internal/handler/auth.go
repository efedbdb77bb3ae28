package handler

import (
	"errors"
	"net/http"

	"github.com/lvaldes/gastracker/internal/domain"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Signup registers a new account and returns a session token.
func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "validation", "invalid JSON body")
		return
	}

	user, token, err := s.auth.Signup(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
	case errors.Is(err, domain.ErrValidation):
		respondValidation(w, err)
	case errors.Is(err, domain.ErrConflict):
		respondError(w, http.StatusConflict, "email_taken", "an account with this email already exists")
	default:
		respondInternal(w)
	}
}

// Login authenticates an existing account and returns a session token.
// Unknown email and wrong password produce the same response so the endpoint
// does not leak which emails are registered.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "validation", "invalid JSON body")
		return
	}

	user, token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password")
	default:
		respondInternal(w)
	}
}

// Me returns the profile of the authenticated user.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}

	user, err := s.auth.Me(r.Context(), uid)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, map[string]domain.User{"user": user})
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not_found", "user not found")
	default:
		respondInternal(w)
	}
}
