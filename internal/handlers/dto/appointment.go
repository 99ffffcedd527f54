package dto

import (
	"time"

	"github.com/thereayou/barber-booking/internal/models"
)

type AppointmentResponse struct {
	ID         uint       `json:"id"`
	UserID     uint       `json:"user_id"`
	ProviderID uint       `json:"provider_id"`
	Date       time.Time  `json:"date"`
	CanceledAt *time.Time `json:"canceled_at"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func NewAppointmentResponse(a *models.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		ProviderID: a.ProviderID,
		Date:       a.Date,
		CanceledAt: a.CanceledAt,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
