package db

import "time"

type HandCard struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"index;not null;uniqueIndex:idx_hands_room_player_card"`
	PlayerID  uint      `gorm:"index;not null;uniqueIndex:idx_hands_room_player_card"`
	CardID    uint      `gorm:"index;not null;uniqueIndex:idx_hands_room_player_card"`
	Played    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
