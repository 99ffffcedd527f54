package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/thereayou/barber-booking/internal/handlers/dto"
	"github.com/thereayou/barber-booking/internal/middleware"
	"github.com/thereayou/barber-booking/internal/services"
)

type UserHandler struct {
	users        services.UserDirectory
	appointments *services.AppointmentService
}

func NewUserHandler(users services.UserDirectory, appointments *services.AppointmentService) *UserHandler {
	return &UserHandler{users: users, appointments: appointments}
}

// GetMe returns the authenticated user.
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewUserResponse(user))
}

// Providers lists every provider with avatar.
func (h *UserHandler) Providers(c *gin.Context) {
	providers, err := h.appointments.ListProviders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, providers)
}
