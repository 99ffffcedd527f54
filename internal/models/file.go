package models

import "time"

type File struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Path      string `gorm:"uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// URL builds the public link for the file under baseURL.
func (f *File) URL(baseURL string) string {
	return baseURL + "/files/" + f.Path
}
