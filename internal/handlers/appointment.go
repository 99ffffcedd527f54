package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/barber-booking/internal/handlers/dto"
	"github.com/thereayou/barber-booking/internal/middleware"
	"github.com/thereayou/barber-booking/internal/services"
)

type AppointmentHandler struct {
	appointments *services.AppointmentService
}

func NewAppointmentHandler(appointments *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

// Index lists the caller's upcoming appointments, 20 per page.
func (h *AppointmentHandler) Index(c *gin.Context) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		page = 1
	}

	appointments, err := h.appointments.ListAppointments(c.Request.Context(), middleware.UserID(c), page)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointments)
}

// Store books an appointment with a provider.
func (h *AppointmentHandler) Store(c *gin.Context) {
	var req services.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation failed")
		return
	}

	appointment, err := h.appointments.CreateAppointment(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAppointmentResponse(appointment))
}
