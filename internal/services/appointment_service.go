package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/thereayou/barber-booking/internal/database"
	"github.com/thereayou/barber-booking/internal/models"
	"github.com/thereayou/barber-booking/pkg/metrics"
)

const PageSize = 20

var tracer = otel.Tracer("github.com/thereayou/barber-booking/internal/services")

// Offset-less layouts accepted after RFC 3339, tried in order.
var localDateLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

type CreateAppointmentRequest struct {
	ProviderID *uint  `json:"provider_id"`
	Date       string `json:"date"`
}

// BookingNotifier is told about every appointment that was persisted.
type BookingNotifier interface {
	NotifyBooking(ctx context.Context, providerID uint, customerName string, date time.Time) (*models.Notification, error)
}

type AppointmentService struct {
	users        UserDirectory
	appointments AppointmentStore
	notifier     BookingNotifier
	metrics      *metrics.Collector
	log          *zap.Logger
	baseURL      string
	loc          *time.Location
	now          func() time.Time
}

type AppointmentServiceOption func(*AppointmentService)

// WithClock replaces time.Now for the past-date check.
func WithClock(now func() time.Time) AppointmentServiceOption {
	return func(s *AppointmentService) { s.now = now }
}

// WithLocation sets the zone used for dates sent without an offset.
func WithLocation(loc *time.Location) AppointmentServiceOption {
	return func(s *AppointmentService) { s.loc = loc }
}

func NewAppointmentService(
	users UserDirectory,
	appointments AppointmentStore,
	notifier BookingNotifier,
	collector *metrics.Collector,
	log *zap.Logger,
	baseURL string,
	opts ...AppointmentServiceOption,
) *AppointmentService {
	s := &AppointmentService{
		users:        users,
		appointments: appointments,
		notifier:     notifier,
		metrics:      collector,
		log:          log,
		baseURL:      baseURL,
		loc:          time.UTC,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	return s
}

// ListAppointments returns one page of the user's active appointments.
// Pages below 1 are treated as page 1.
func (s *AppointmentService) ListAppointments(ctx context.Context, userID uint, page int) (views []AppointmentView, err error) {
	ctx, span := tracer.Start(ctx, "AppointmentService.ListAppointments",
		trace.WithAttributes(attribute.Int("user.id", int(userID)), attribute.Int("page", page)))
	defer func() { endSpan(span, err) }()

	if page < 1 {
		page = 1
	}

	appointments, err := s.appointments.ListActiveAppointments(ctx, userID, PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, fmt.Errorf("listing appointments: %w", err)
	}

	views = make([]AppointmentView, 0, len(appointments))
	for i := range appointments {
		a := &appointments[i]
		if !a.IsActive() {
			continue
		}
		views = append(views, AppointmentView{
			ID:       a.ID,
			Date:     a.Date,
			Provider: newProviderView(&a.Provider, s.baseURL),
		})
	}

	return views, nil
}

// CreateAppointment books the hour slot containing req.Date with the
// provider. Checks run in order and the first failure is returned.
func (s *AppointmentService) CreateAppointment(ctx context.Context, userID uint, req CreateAppointmentRequest) (appointment *models.Appointment, err error) {
	ctx, span := tracer.Start(ctx, "AppointmentService.CreateAppointment",
		trace.WithAttributes(attribute.Int("user.id", int(userID))))
	defer func() { endSpan(span, err) }()

	date, err := s.validate(req)
	if err != nil {
		s.reject("validation")
		return nil, err
	}
	providerID := *req.ProviderID

	if _, err := s.users.FindProvider(ctx, providerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.reject("not_provider")
			return nil, ErrUnauthorizedProvider
		}
		return nil, fmt.Errorf("finding provider: %w", err)
	}

	if providerID == userID {
		s.reject("self_booking")
		return nil, ErrSelfBooking
	}

	hourStart := StartOfHour(date.In(s.loc))

	if hourStart.Before(s.now()) {
		s.reject("past_date")
		return nil, ErrPastDate
	}

	taken, err := s.appointments.HasActiveAppointment(ctx, providerID, hourStart)
	if err != nil {
		return nil, fmt.Errorf("checking availability: %w", err)
	}
	if taken {
		s.reject("unavailable")
		return nil, ErrSlotUnavailable
	}

	appointment = &models.Appointment{
		UserID:     userID,
		ProviderID: providerID,
		Date:       hourStart,
	}
	if err := s.appointments.CreateAppointment(ctx, appointment); err != nil {
		if errors.Is(err, database.ErrSlotTaken) {
			s.reject("unavailable")
			return nil, ErrSlotUnavailable
		}
		s.log.Error("failed to create appointment", zap.Error(err))
		return nil, fmt.Errorf("creating appointment: %w", err)
	}
	if s.metrics != nil {
		s.metrics.AppointmentsBooked.Inc()
	}

	s.notifyProvider(ctx, appointment)

	return appointment, nil
}

// notifyProvider never fails the booking; the appointment is already
// committed when it runs.
func (s *AppointmentService) notifyProvider(ctx context.Context, a *models.Appointment) {
	user, err := s.users.GetUser(ctx, a.UserID)
	if err == nil {
		_, err = s.notifier.NotifyBooking(ctx, a.ProviderID, user.Name, a.Date)
	}
	if err != nil {
		if s.metrics != nil {
			s.metrics.NotificationFailures.Inc()
		}
		s.log.Error("failed to notify provider",
			zap.Uint("appointment_id", a.ID),
			zap.Uint("provider_id", a.ProviderID),
			zap.Error(err),
		)
	}
}

// ListProviders returns every provider with its avatar.
func (s *AppointmentService) ListProviders(ctx context.Context) ([]ProviderView, error) {
	providers, err := s.users.ListProviders(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing providers: %w", err)
	}

	views := make([]ProviderView, 0, len(providers))
	for i := range providers {
		views = append(views, newProviderView(&providers[i], s.baseURL))
	}
	return views, nil
}

func (s *AppointmentService) validate(req CreateAppointmentRequest) (time.Time, error) {
	var fields []string

	if req.ProviderID == nil {
		fields = append(fields, "provider_id is required")
	} else if *req.ProviderID == 0 {
		fields = append(fields, "provider_id must be a positive number")
	}

	var date time.Time
	if req.Date == "" {
		fields = append(fields, "date is required")
	} else {
		parsed, err := ParseDate(req.Date, s.loc)
		if err != nil {
			fields = append(fields, "date must be a valid ISO-8601 date")
		}
		date = parsed
	}

	if len(fields) > 0 {
		return time.Time{}, &ValidationError{Fields: fields}
	}
	return date, nil
}

func (s *AppointmentService) reject(reason string) {
	if s.metrics != nil {
		s.metrics.BookingsRejected.WithLabelValues(reason).Inc()
	}
}

// ParseDate reads an ISO-8601 date or date-time. Values without an offset
// are interpreted in loc.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	var lastErr error
	for _, layout := range localDateLayouts {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// StartOfHour zeroes minutes, seconds and nanoseconds in t's location.
// Callers convert t to the service zone first so slots share boundaries.
func StartOfHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
