package database

import (
	"errors"

	"gorm.io/gorm"
)

// ErrSlotTaken is returned when an insert hits the active-slot unique index.
var ErrSlotTaken = errors.New("provider slot already taken")

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
