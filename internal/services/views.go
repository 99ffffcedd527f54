package services

import (
	"time"

	"github.com/thereayou/barber-booking/internal/models"
)

type AvatarView struct {
	ID   uint   `json:"id"`
	Path string `json:"path"`
	URL  string `json:"url"`
}

type ProviderView struct {
	ID     uint        `json:"id"`
	Name   string      `json:"name"`
	Avatar *AvatarView `json:"avatar"`
}

type AppointmentView struct {
	ID       uint         `json:"id"`
	Date     time.Time    `json:"date"`
	Provider ProviderView `json:"provider"`
}

func newProviderView(u *models.User, baseURL string) ProviderView {
	view := ProviderView{ID: u.ID, Name: u.Name}
	if u.Avatar != nil {
		view.Avatar = &AvatarView{
			ID:   u.Avatar.ID,
			Path: u.Avatar.Path,
			URL:  u.Avatar.URL(baseURL),
		}
	}
	return view
}
