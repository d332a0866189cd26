// Package common defines shared constants and sentinel errors used across
// the server and the client. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")
	ErrorConflict     = errors.New("conflict")

	// Uniqueness violations. Both match ErrorConflict via errors.Is.
	ErrDuplicateEmail    = fmt.Errorf("duplicate email: %w", ErrorConflict)
	ErrDuplicateUsername = fmt.Errorf("duplicate username: %w", ErrorConflict)

	// Startup errors. A service that hits one of these must not serve requests.
	ErrConfiguration = errors.New("configuration error")

	// Token verification errors.
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenMalformed   = errors.New("malformed token")
)
