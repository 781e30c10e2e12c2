package db

import (
	"time"

	"gorm.io/datatypes"
)

// Event is the append-only log of game activity; Payload mirrors the
// change-event body broadcast over websockets.
type Event struct {
	ID        uint           `gorm:"primaryKey"`
	RoomID    uint           `gorm:"index;not null"`
	PlayerID  *uint          `gorm:"index"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
