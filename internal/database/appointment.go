package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/thereayou/barber-booking/internal/models"
)

const uniqueViolation = "23505"

// ListActiveAppointments returns the user's non-canceled appointments by
// ascending date with provider and avatar preloaded.
func (d *Database) ListActiveAppointments(ctx context.Context, userID uint, limit, offset int) ([]models.Appointment, error) {
	var appointments []models.Appointment

	err := d.db.WithContext(ctx).
		Where("user_id = ? AND canceled_at IS NULL", userID).
		Order("date ASC").
		Limit(limit).
		Offset(offset).
		Preload("Provider").
		Preload("Provider.Avatar").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}

	return appointments, nil
}

func (d *Database) HasActiveAppointment(ctx context.Context, providerID uint, date time.Time) (bool, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("provider_id = ? AND date = ? AND canceled_at IS NULL", providerID, date).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateAppointment maps a violation of the active-slot index to ErrSlotTaken.
func (d *Database) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	err := d.db.WithContext(ctx).Create(appointment).Error
	if isSlotViolation(err) {
		return ErrSlotTaken
	}
	return err
}

func isSlotViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation && pgErr.ConstraintName == activeSlotIndex
	}
	return false
}
