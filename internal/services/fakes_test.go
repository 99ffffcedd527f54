package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/thereayou/barber-booking/internal/models"
)

type fakeUsers struct {
	mu    sync.Mutex
	users map[uint]*models.User
	err   error
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{users: make(map[uint]*models.User)}
	for i := range users {
		u := users[i]
		f.users[u.ID] = &u
	}
	return f
}

func (f *fakeUsers) GetUser(_ context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindProvider(ctx context.Context, id uint) (*models.User, error) {
	u, err := f.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.Provider {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUsers) ListProviders(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, u := range f.users {
		if u.Provider {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeUsers) SaveUser(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = uint(len(f.users) + 1)
	stored := *u
	f.users[u.ID] = &stored
	return nil
}

func (f *fakeUsers) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeAppointments struct {
	mu          sync.Mutex
	items       []models.Appointment
	providers   map[uint]models.User
	createErr   error
	lastLimit   int
	lastOffset  int
	createCalls int
}

func (f *fakeAppointments) ListActiveAppointments(_ context.Context, userID uint, limit, offset int) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit, f.lastOffset = limit, offset

	var active []models.Appointment
	for _, a := range f.items {
		if a.UserID == userID && a.IsActive() {
			if p, ok := f.providers[a.ProviderID]; ok {
				a.Provider = p
			}
			active = append(active, a)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].Date.Before(active[j].Date) })

	if offset >= len(active) {
		return nil, nil
	}
	end := offset + limit
	if end > len(active) {
		end = len(active)
	}
	return active[offset:end], nil
}

func (f *fakeAppointments) HasActiveAppointment(_ context.Context, providerID uint, date time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.items {
		if a.ProviderID == providerID && a.Date.Equal(date) && a.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAppointments) CreateAppointment(_ context.Context, a *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	a.ID = uint(len(f.items) + 1)
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	f.items = append(f.items, *a)
	return nil
}

type notifyCall struct {
	providerID uint
	name       string
	date       time.Time
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []notifyCall
	err   error
}

func (f *fakeNotifier) NotifyBooking(_ context.Context, providerID uint, name string, date time.Time) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, notifyCall{providerID: providerID, name: name, date: date})
	if f.err != nil {
		return nil, f.err
	}
	return &models.Notification{User: providerID}, nil
}

type fakeNotificationStore struct {
	mu        sync.Mutex
	items     []models.Notification
	err       error
	lastLimit int64
	creates   int
}

func (f *fakeNotificationStore) CreateNotification(_ context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.err != nil {
		return f.err
	}
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	f.items = append(f.items, *n)
	return nil
}

func (f *fakeNotificationStore) ListNotifications(_ context.Context, userID uint, limit int64) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastLimit = limit
	out := []models.Notification{}
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].User == userID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, id primitive.ObjectID, userID uint) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id && f.items[i].User == userID {
			f.items[i].Read = true
			n := f.items[i]
			return &n, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

type fakePublisher struct {
	mu        sync.Mutex
	published []*models.Notification
	err       error
}

func (f *fakePublisher) PublishNotification(n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, n)
	return f.err
}

type fakeTokens struct {
	expiry time.Time
	err    error
}

func (f *fakeTokens) Generate(userID uint) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-" + strconv.FormatUint(uint64(userID), 10), nil
}

func (f *fakeTokens) Expiry(string) (time.Time, error) {
	if f.err != nil {
		return time.Time{}, f.err
	}
	return f.expiry, nil
}

type fakeBlacklist struct {
	mu     sync.Mutex
	tokens map[string]time.Duration
}

func (f *fakeBlacklist) Blacklist(_ context.Context, token string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tokens == nil {
		f.tokens = make(map[string]time.Duration)
	}
	f.tokens[token] = ttl
	return nil
}

func (f *fakeBlacklist) IsBlacklisted(_ context.Context, token string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.tokens[token]
	return ok, nil
}

var errBoom = errors.New("boom")
