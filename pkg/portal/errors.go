package portal

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials matches the rejected-login case specifically;
	// errors.Is works through the AuthError carrying it.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound marks a 404; nullable read paths translate it to a nil
	// result instead of surfacing it.
	ErrNotFound = errors.New("not found")

	// ErrAuthRequired is returned before any network call when an
	// operation needs a session token and none is present.
	ErrAuthRequired = errors.New("authentication required")

	// ErrNoSession means there is nothing to refresh or log out.
	ErrNoSession = errors.New("no active session")

	// ErrSessionExpired is returned when a refresh fails; the stored
	// session has already been cleared by then.
	ErrSessionExpired = errors.New("session expired")

	// ErrBookingInFlight guards against double submission while a booking
	// request is outstanding.
	ErrBookingInFlight = errors.New("booking already in progress")
)

// AuthError covers rejected credentials and rejected tokens (401).
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "authentication failed"
}

func (e *AuthError) Is(target error) bool {
	return target == ErrInvalidCredentials && e.Code == "invalid_credentials"
}

// ValidationError covers malformed input, whether detected locally or by
// the server (400).
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ConflictError covers duplicate resources (409).
type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// RequestError is the terminal shape of every other HTTP or transport
// failure. Status 0 means the request never reached the server.
type RequestError struct {
	Status  int
	Code    string
	Message string
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	return fmt.Sprintf("request failed (%d %s): %s", e.Status, e.Code, e.Message)
}
