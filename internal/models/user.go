package models

import "time"

type User struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Provider     bool   `gorm:"not null;default:false;index"`
	AvatarID     *uint
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Avatar *File `gorm:"foreignKey:AvatarID"`
}
