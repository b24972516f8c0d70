// Package models contains the server-side domain types.
package models

import "time"

// User is a registered account. PasswordHash holds a bcrypt hash; the
// plaintext password never leaves the registration/login request scope.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the resolved, authenticated representation of the calling
// user, derived solely from a validated session token.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
}
