package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Specific errors below wrap one of these so the HTTP layer
// can translate by kind with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// ErrUnauthenticated and ErrUnauthorized are reported identically to
	// clients.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUnauthorized    = errors.New("unauthorized")

	ErrInvalidCredentials = errors.New("invalid username or password")
)

var (
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrJobNotFound         = fmt.Errorf("job %w", ErrNotFound)
	ErrApplicationNotFound = fmt.Errorf("application %w", ErrNotFound)
	ErrListingNotFound     = fmt.Errorf("listing %w", ErrNotFound)

	ErrUsernameTaken  = fmt.Errorf("%w: username already taken", ErrConflict)
	ErrAlreadyApplied = fmt.Errorf("%w: application already exists", ErrConflict)

	// ErrInvalidTransition is returned when ApplicationState.CanTransition
	// refuses a move. No move is refused today.
	ErrInvalidTransition = fmt.Errorf("%w: application state transition not allowed", ErrConflict)
)
