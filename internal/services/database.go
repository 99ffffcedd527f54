package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thereayou/barber-booking/internal/models"
)

// UserDirectory is the read side of the users table. Lookups that find
// nothing return gorm.ErrRecordNotFound.
type UserDirectory interface {
	GetUser(ctx context.Context, id uint) (*models.User, error)
	FindProvider(ctx context.Context, id uint) (*models.User, error)
	ListProviders(ctx context.Context) ([]models.User, error)
}

type AccountStore interface {
	SaveUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type AppointmentStore interface {
	ListActiveAppointments(ctx context.Context, userID uint, limit, offset int) ([]models.Appointment, error)
	HasActiveAppointment(ctx context.Context, providerID uint, date time.Time) (bool, error)
	// CreateAppointment returns database.ErrSlotTaken when the slot was
	// booked concurrently.
	CreateAppointment(ctx context.Context, appointment *models.Appointment) error
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID uint, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, userID uint) (*models.Notification, error)
}

// NotificationPublisher pushes a stored notification to connected clients.
type NotificationPublisher interface {
	PublishNotification(n *models.Notification) error
}

type TokenBlacklist interface {
	Blacklist(ctx context.Context, token string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}
