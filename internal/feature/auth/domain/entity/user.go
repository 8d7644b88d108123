// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered user in the system.
type User struct {
	// ID is the store-generated identifier (ObjectID hex or UUID depending on the store).
	ID string

	// Email is the address used for authentication, unique and compared as stored.
	Email string

	// Password is the bcrypt digest of the user's password, never the plaintext.
	Password string

	CreatedAt time.Time
	UpdatedAt time.Time
}
