package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lvaldes/gastracker/internal/domain"
)

// Claims is the verified identity carried by a bearer token.
type Claims struct {
	UserID int64
	Email  string
}

// TokenManager mints and verifies HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager constructs a TokenManager. ttl bounds token lifetime;
// pass the configured value (default seven days).
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token identifying the user. The jti claim gives
// every token a unique identity even for back-to-back logins.
func (m *TokenManager) Issue(userID int64, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(userID, 10),
		"email": email,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(m.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth.TokenManager.Issue: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string and returns its claims.
// Any failure — bad signature, wrong signing method, expiry, missing
// claims — is reported as domain.ErrUnauthorized.
func (m *TokenManager) Verify(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		// Reject tokens signed with anything other than HMAC, including
		// the classic "alg: none" downgrade.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, fmt.Errorf("auth.TokenManager.Verify: %w", domain.ErrUnauthorized)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("auth.TokenManager.Verify: claims: %w", domain.ErrUnauthorized)
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return Claims{}, fmt.Errorf("auth.TokenManager.Verify: sub: %w", domain.ErrUnauthorized)
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return Claims{}, fmt.Errorf("auth.TokenManager.Verify: sub: %w", domain.ErrUnauthorized)
	}

	email, ok := mapClaims["email"].(string)
	if !ok {
		return Claims{}, fmt.Errorf("auth.TokenManager.Verify: email: %w", domain.ErrUnauthorized)
	}

	return Claims{UserID: userID, Email: email}, nil
}
