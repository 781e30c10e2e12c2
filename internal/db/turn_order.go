package db

import "time"

type TurnOrder struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"index;not null;uniqueIndex:idx_turn_order_room_position"`
	PlayerID  uint      `gorm:"index;not null"`
	Position  int       `gorm:"not null;uniqueIndex:idx_turn_order_room_position"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
