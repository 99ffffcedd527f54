package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/barber-booking/internal/handlers"
	"github.com/thereayou/barber-booking/internal/middleware"
	"github.com/thereayou/barber-booking/pkg/metrics"
)

type routeHandlers struct {
	auth          *handlers.AuthHandler
	appointments  *handlers.AppointmentHandler
	users         *handlers.UserHandler
	notifications *handlers.NotificationHandler
	websocket     *handlers.WebSocketHandler
}

func APIEndpoints(
	r *gin.Engine,
	h routeHandlers,
	authMW gin.HandlerFunc,
	wsAuthMW gin.HandlerFunc,
	limiter *middleware.RateLimiter,
	collector *metrics.Collector,
) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(collector.Handler()))

	// Auth endpoints
	auth := r.Group("/auth")
	{
		auth.POST("/register", limiter.Middleware(), h.auth.Register)
		auth.POST("/login", limiter.Middleware(), h.auth.Login)
		auth.POST("/logout", authMW, h.auth.Logout)
	}

	api := r.Group("/")
	api.Use(authMW)
	{
		api.GET("/users/me", h.users.GetMe)
		api.GET("/providers", h.users.Providers)

		api.GET("/appointments", h.appointments.Index)
		api.POST("/appointments", h.appointments.Store)

		api.GET("/notifications", h.notifications.Index)
		api.PUT("/notifications/:id", h.notifications.Update)
	}

	r.GET("/ws", wsAuthMW, h.websocket.HandleWebSocket)
}
