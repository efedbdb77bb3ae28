package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lvaldes/gastracker/internal/auth"
	"github.com/lvaldes/gastracker/internal/domain"
	"github.com/lvaldes/gastracker/internal/repo"
)

// minPasswordLength matches the signup policy enforced at the API boundary.
const minPasswordLength = 6

// AuthService handles signup, login, and identity lookups. Password hashing
// and token minting are delegated to the auth package; persistence to the
// user repo.
type AuthService struct {
	users  repo.UserRepo
	tokens *auth.TokenManager
}

// NewAuthService constructs an AuthService.
func NewAuthService(users repo.UserRepo, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Signup registers a new user and returns the user plus a bearer token.
// Returns domain.ErrValidation for a malformed email or short password and
// domain.ErrConflict when the email is already registered.
func (s *AuthService) Signup(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateCredentials(email, password); err != nil {
		return domain.User{}, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Signup: %w", err)
	}

	user, err := s.users.Create(ctx, email, hash)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Signup: %w", err)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Signup: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and returns the user plus a fresh bearer token.
// Returns domain.ErrUnauthorized for an unknown email or wrong password —
// deliberately the same error for both, so callers cannot probe for
// registered addresses.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
		}
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", domain.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return domain.User{}, "", fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return user, token, nil
}

// Me returns the user record for an already-authenticated user id.
func (s *AuthService) Me(ctx context.Context, userID int64) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Me: %w", err)
	}
	return user, nil
}

// validateCredentials applies the signup rules: a plausible email address
// and a password of at least minPasswordLength characters.
func validateCredentials(email, password string) error {
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return fmt.Errorf("%w: invalid email address", domain.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	return nil
}
