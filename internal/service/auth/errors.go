package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid session token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("session token has expired")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("session token is missing")

	// ErrRevokedToken indicates the session was logged out
	ErrRevokedToken = errors.New("session token has been revoked")

	// ErrInvalidCredentials covers both an unknown username and a wrong
	// password so callers cannot tell which.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
