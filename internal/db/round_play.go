package db

import "time"

// RoundPlay rows live only for the duration of one round and are deleted
// in bulk when the round resolves.
type RoundPlay struct {
	ID            uint      `gorm:"primaryKey"`
	RoomID        uint      `gorm:"index;not null"`
	PlayerID      uint      `gorm:"index;not null"`
	CardID        uint      `gorm:"index;not null"`
	Attribute     string    `gorm:"size:8;not null"`
	Value         int       `gorm:"not null"`
	TiebreakTotal int       `gorm:"not null"`
	PlayedAt      time.Time `gorm:"not null;index"`
	CreatedAt     time.Time `gorm:"not null"`
}
