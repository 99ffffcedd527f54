package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/barber-booking/internal/services"
)

// Client-facing messages for the booking rule violations.
var errorMessages = map[error]string{
	services.ErrUnauthorizedProvider: "You can only create appointments with providers",
	services.ErrSelfBooking:          "You cannot create appointments to yourself",
	services.ErrPastDate:             "Past dates are not allowed",
	services.ErrSlotUnavailable:      "Appointment date/time is not available",
	services.ErrNotProvider:          "Only providers can load notifications",
	services.ErrNotificationNotFound: "Notification not found",
	services.ErrEmailTaken:           "User already exists",
	services.ErrInvalidCredentials:   "Invalid credentials",
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// respondServiceError maps service errors to a status and {"error": ...}.
// Anything unknown is a 500 and is attached to the context for the logger.
func respondServiceError(c *gin.Context, err error) {
	var validErr *services.ValidationError
	if errors.As(err, &validErr) {
		respondError(c, http.StatusBadRequest, "Validation failed")
		return
	}

	switch {
	case errors.Is(err, services.ErrUnauthorizedProvider),
		errors.Is(err, services.ErrSelfBooking),
		errors.Is(err, services.ErrNotProvider),
		errors.Is(err, services.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, messageFor(err))

	case errors.Is(err, services.ErrPastDate),
		errors.Is(err, services.ErrSlotUnavailable),
		errors.Is(err, services.ErrEmailTaken):
		respondError(c, http.StatusBadRequest, messageFor(err))

	case errors.Is(err, services.ErrNotificationNotFound):
		respondError(c, http.StatusNotFound, messageFor(err))

	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

func messageFor(err error) string {
	for target, msg := range errorMessages {
		if errors.Is(err, target) {
			return msg
		}
	}
	return err.Error()
}
