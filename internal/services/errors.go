package services

import (
	"errors"
	"strings"
)

var (
	ErrUnauthorizedProvider = errors.New("provider is not a service provider")
	ErrSelfBooking          = errors.New("cannot book an appointment with yourself")
	ErrPastDate             = errors.New("appointment date is in the past")
	ErrSlotUnavailable      = errors.New("appointment slot is not available")

	ErrNotProvider          = errors.New("user is not a provider")
	ErrNotificationNotFound = errors.New("notification not found")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports malformed input. Fields names what failed.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}
