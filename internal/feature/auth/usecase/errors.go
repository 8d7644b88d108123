package usecase

import "errors"

var (
	// ErrInvalidInput is returned when the email is malformed or the password is empty.
	ErrInvalidInput = errors.New("invalid email or password format")

	// ErrDuplicateIdentity is returned when signing up with an email that is already registered.
	ErrDuplicateIdentity = errors.New("email already registered")

	// ErrInvalidCredentials is returned for an unknown email and for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUnauthenticated is returned when a token is absent, malformed, expired or forged.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUserNotFound is returned by repositories when no user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
)
