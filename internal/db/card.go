package db

import "time"

// Card is one catalog entry. The catalog is seeded once by cmd/load-cards
// and never mutated afterward.
type Card struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:64;not null;uniqueIndex"`
	Car       int       `gorm:"not null"`
	Cul       int       `gorm:"not null"`
	Tet       int       `gorm:"not null"`
	Fis       int       `gorm:"not null"`
	Per       int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
