package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/thereayou/barber-booking/internal/models"
)

const (
	inboxLimit = 20

	// Consecutive store failures before notification writes are short-circuited.
	storeFailureThreshold = 5
	storeOpenTimeout      = 30 * time.Second
)

type NotificationService struct {
	store     NotificationStore
	breaker   *gobreaker.CircuitBreaker[struct{}]
	publisher NotificationPublisher
	users     UserDirectory
	log       *zap.Logger
	locale    string
	loc       *time.Location
}

// NewNotificationService formats booking messages in locale and loc.
// publisher may be nil when realtime delivery is not wired.
func NewNotificationService(
	store NotificationStore,
	publisher NotificationPublisher,
	users UserDirectory,
	log *zap.Logger,
	locale string,
	loc *time.Location,
) *NotificationService {
	if loc == nil {
		loc = time.UTC
	}
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "notification-store",
		Timeout: storeOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= storeFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &NotificationService{
		store:     store,
		breaker:   breaker,
		publisher: publisher,
		users:     users,
		log:       log,
		locale:    locale,
		loc:       loc,
	}
}

// NotifyBooking stores a notification for the provider and pushes it to any
// open connection. Push failures are logged only. After repeated store
// failures writes fail fast with gobreaker.ErrOpenState.
func (s *NotificationService) NotifyBooking(ctx context.Context, providerID uint, customerName string, date time.Time) (*models.Notification, error) {
	n := &models.Notification{
		Content: BookingMessage(customerName, date, s.locale, s.loc),
		User:    providerID,
	}

	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.store.CreateNotification(ctx, n)
	})
	if err != nil {
		return nil, fmt.Errorf("storing notification: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishNotification(n); err != nil {
			s.log.Warn("failed to push notification",
				zap.Uint("provider_id", providerID),
				zap.Error(err),
			)
		}
	}

	return n, nil
}

// ListNotifications returns the latest notifications of a provider.
func (s *NotificationService) ListNotifications(ctx context.Context, userID uint) ([]models.Notification, error) {
	if _, err := s.users.FindProvider(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotProvider
		}
		return nil, fmt.Errorf("finding provider: %w", err)
	}

	notifications, err := s.store.ListNotifications(ctx, userID, inboxLimit)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID uint, rawID string) (*models.Notification, error) {
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return nil, &ValidationError{Fields: []string{"id must be a valid notification id"}}
	}

	n, err := s.store.MarkRead(ctx, id, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("marking notification read: %w", err)
	}
	return n, nil
}
