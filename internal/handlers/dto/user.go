package dto

import "github.com/thereayou/barber-booking/internal/models"

type LoginResponse struct {
	Token string `json:"token"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Provider bool   `json:"provider"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Provider: u.Provider}
}
