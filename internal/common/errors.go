// Package common defines shared constants and sentinel errors used across
// the client layers of TodoKeeper. Callers should use errors.Is to match
// these values; adapters wrap provider-specific failures into them so the
// rest of the application never depends on provider wording.
package common

import "errors"

var (
	// Validation errors (use-case preconditions, raised before any I/O).
	ErrorValidation = errors.New("validation error")

	// Account provider errors.
	ErrorAlreadyRegistered  = errors.New("email is already registered")
	ErrorInvalidCredentials = errors.New("invalid credentials")
	ErrorWeakPassword       = errors.New("password is too weak")
	ErrorInvalidEmail       = errors.New("invalid email")
	ErrorUnauthorized       = errors.New("unauthorized")

	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Adapter I/O errors (cache or store failures, unreachable services).
	ErrorStorage     = errors.New("storage error")
	ErrorUnavailable = errors.New("server unavailable")
)
