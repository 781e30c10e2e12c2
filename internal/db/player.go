package db

import "time"

type Player struct {
	ID              uint      `gorm:"primaryKey"`
	RoomID          uint      `gorm:"index;not null;uniqueIndex:idx_players_room_identity"`
	Identity        string    `gorm:"size:36;not null;uniqueIndex:idx_players_room_identity"`
	Name            string    `gorm:"size:64;not null"`
	SeatNumber      int       `gorm:"not null;default:0"`
	PredictedRounds *int      ``
	WonRounds       int       `gorm:"not null;default:0"`
	HasBid          bool      `gorm:"not null;default:false"`
	TotalScore      int       `gorm:"not null;default:0"`
	LastSeen        time.Time `gorm:"not null"`
	JoinedAt        time.Time `gorm:"not null"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
	Hands           []HandCard
	Plays           []RoundPlay
	Chat            []ChatMessage
}
