package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/barber-booking/internal/middleware"
	"github.com/thereayou/barber-booking/internal/services"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) Index(c *gin.Context) {
	notifications, err := h.notifications.ListNotifications(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// Update marks the notification as read.
func (h *NotificationHandler) Update(c *gin.Context) {
	n, err := h.notifications.MarkRead(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, n)
}
