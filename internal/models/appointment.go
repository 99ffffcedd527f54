package models

import "time"

// Appointment is active while CanceledAt is nil. Date is always on an hour
// boundary.
type Appointment struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"not null;index"`
	ProviderID uint      `gorm:"not null"`
	Date       time.Time `gorm:"not null"`
	CanceledAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time

	User     User `gorm:"foreignKey:UserID"`
	Provider User `gorm:"foreignKey:ProviderID"`
}

func (a *Appointment) IsActive() bool {
	return a.CanceledAt == nil
}
