package db

import "time"

type ChatMessage struct {
	ID         uint      `gorm:"primaryKey"`
	RoomID     uint      `gorm:"index;not null"`
	PlayerID   *uint     `gorm:"index"`
	PlayerName string    `gorm:"size:64;not null"`
	Message    string    `gorm:"size:280;not null"`
	CreatedAt  time.Time `gorm:"not null;index"`
}
