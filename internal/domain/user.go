package domain

import "time"

// User owns trips and fuel snapshots. Deleting a user cascades to both.
// PasswordHash never leaves the server; the json tag guards against
// accidental serialization.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
