package database

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/thereayou/barber-booking/internal/config"
	"github.com/thereayou/barber-booking/internal/models"
)

const activeSlotIndex = "idx_appointments_active_slot"

func (d *Database) Connect(cfg config.DatabaseConfig) error {
	if cfg.URL == "" {
		return errors.New("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("getting underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := Migrate(db); err != nil {
		return err
	}

	d.db = db

	return nil
}

// Migrate creates the tables and the partial unique index that keeps two
// active appointments off the same provider slot.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.File{}, &models.User{}, &models.Appointment{}); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	query := fmt.Sprintf(
		`CREATE UNIQUE INDEX IF NOT EXISTS %s ON appointments (provider_id, date) WHERE canceled_at IS NULL`,
		activeSlotIndex,
	)
	if err := db.Exec(query).Error; err != nil {
		return fmt.Errorf("creating %s: %w", activeSlotIndex, err)
	}

	return nil
}
