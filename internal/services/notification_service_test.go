package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/thereayou/barber-booking/internal/models"
)

func newNotificationFixture() (*NotificationService, *fakeNotificationStore, *fakePublisher) {
	users := newFakeUsers(
		models.User{ID: 1, Name: "Diego"},
		models.User{ID: 2, Name: "Joe", Provider: true},
	)
	store := &fakeNotificationStore{}
	pub := &fakePublisher{}
	return NewNotificationService(store, pub, users, zap.NewNop(), "pt", time.UTC), store, pub
}

func TestNotifyBooking(t *testing.T) {
	svc, store, pub := newNotificationFixture()
	date := time.Date(2030, time.March, 15, 10, 0, 0, 0, time.UTC)

	n, err := svc.NotifyBooking(context.Background(), 2, "Diego", date)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.User != 2 || n.Read {
		t.Errorf("unexpected notification %+v", n)
	}
	if !strings.Contains(n.Content, "Diego") || !strings.Contains(n.Content, "às 10:00h") {
		t.Errorf("unexpected content %q", n.Content)
	}
	if len(store.items) != 1 {
		t.Errorf("expected one stored notification, got %d", len(store.items))
	}
	if len(pub.published) != 1 || pub.published[0] != n {
		t.Error("expected stored notification to be published")
	}
}

func TestNotifyBooking_StoreFailure(t *testing.T) {
	svc, store, pub := newNotificationFixture()
	store.err = errBoom

	if _, err := svc.NotifyBooking(context.Background(), 2, "Diego", time.Now()); !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want %v", err, errBoom)
	}
	if len(pub.published) != 0 {
		t.Error("unstored notification must not be published")
	}
}

func TestNotifyBooking_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	svc, store, _ := newNotificationFixture()
	store.err = errBoom
	ctx := context.Background()

	for i := 0; i < storeFailureThreshold; i++ {
		if _, err := svc.NotifyBooking(ctx, 2, "Diego", time.Now()); !errors.Is(err, errBoom) {
			t.Fatalf("attempt %d: err = %v, want %v", i, err, errBoom)
		}
	}

	_, err := svc.NotifyBooking(ctx, 2, "Diego", time.Now())
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("err = %v, want %v", err, gobreaker.ErrOpenState)
	}
	if store.creates != storeFailureThreshold {
		t.Errorf("store called %d times, want %d", store.creates, storeFailureThreshold)
	}
}

func TestNotifyBooking_PublishFailureIgnored(t *testing.T) {
	svc, _, pub := newNotificationFixture()
	pub.err = errBoom

	if _, err := svc.NotifyBooking(context.Background(), 2, "Diego", time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNotifyBooking_NoPublisher(t *testing.T) {
	store := &fakeNotificationStore{}
	svc := NewNotificationService(store, nil, newFakeUsers(), zap.NewNop(), "en", nil)

	n, err := svc.NotifyBooking(context.Background(), 2, "Diego", time.Date(2030, 3, 15, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Content != "New appointment for Diego on March 15, at 10:00" {
		t.Errorf("unexpected content %q", n.Content)
	}
}

func TestListNotifications(t *testing.T) {
	svc, store, _ := newNotificationFixture()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := svc.NotifyBooking(ctx, 2, "Diego", time.Now()); err != nil {
			t.Fatal(err)
		}
	}

	list, err := svc.ListNotifications(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("got %d notifications, want 3", len(list))
	}
	if store.lastLimit != inboxLimit {
		t.Errorf("limit = %d, want %d", store.lastLimit, inboxLimit)
	}
}

func TestListNotifications_OnlyProviders(t *testing.T) {
	svc, _, _ := newNotificationFixture()

	for _, id := range []uint{1, 42} {
		if _, err := svc.ListNotifications(context.Background(), id); !errors.Is(err, ErrNotProvider) {
			t.Errorf("user %d: err = %v, want %v", id, err, ErrNotProvider)
		}
	}
}

func TestMarkRead(t *testing.T) {
	svc, _, _ := newNotificationFixture()
	ctx := context.Background()

	n, err := svc.NotifyBooking(ctx, 2, "Diego", time.Now())
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.MarkRead(ctx, 2, n.ID.Hex())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.Read {
		t.Error("expected notification to be read")
	}

	if _, err := svc.MarkRead(ctx, 1, n.ID.Hex()); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("other user: err = %v, want %v", err, ErrNotificationNotFound)
	}
	if _, err := svc.MarkRead(ctx, 2, primitive.NewObjectID().Hex()); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("unknown id: err = %v, want %v", err, ErrNotificationNotFound)
	}

	var vErr *ValidationError
	if _, err := svc.MarkRead(ctx, 2, "not-an-id"); !errors.As(err, &vErr) {
		t.Errorf("malformed id: err = %v, want ValidationError", err)
	}
}
