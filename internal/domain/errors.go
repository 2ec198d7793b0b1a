package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrStaleReservation       = errors.New("reservation is no longer the current one")
	ErrOperationInFlight      = errors.New("a previous request is still being processed")
	ErrInvalidTransition      = errors.New("action is not available at this step")
	ErrNotConfirmed           = errors.New("action was not confirmed")
	ErrStaleResponse          = errors.New("response superseded by a newer request")
)

// ValidationError is a client-side rule violation. Reason is shown to the user
// as is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// NetworkError is a transport failure or a failure reported by the backend.
type NetworkError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return FallbackMessage(e.Op)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DataShapeError reports a backend payload that is missing expected fields.
type DataShapeError struct {
	Op     string
	Detail string
	Err    error
}

func (e *DataShapeError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}

	return fmt.Sprintf("invalid response for %s", e.Op)
}

func (e *DataShapeError) Unwrap() error {
	return e.Err
}

const (
	OpMovies      = "movies"
	OpSnacks      = "snacks"
	OpShowTimings = "showtimings"
	OpBook        = "book"
	OpSnackOrder  = "snack_order"
	OpConfirm     = "confirm"
	OpCancel      = "cancel"
	OpLogin       = "login"
	OpSignup      = "signup"
)

var fallbackMessages = map[string]string{
	OpMovies:      "Error loading movies. Please try again.",
	OpSnacks:      "Error loading snacks. Please try again.",
	OpShowTimings: "Failed to load show timings",
	OpBook:        "Error booking ticket. Please try again.",
	OpSnackOrder:  "Error ordering snacks. Please try again.",
	OpConfirm:     "Error confirming ticket. Please try again.",
	OpCancel:      "Error cancelling ticket. Please try again.",
	OpLogin:       "Login failed. Please try again.",
	OpSignup:      "Signup failed. Please try again.",
}

func FallbackMessage(op string) string {
	if msg, ok := fallbackMessages[op]; ok {
		return msg
	}

	return "Something went wrong. Please try again."
}
