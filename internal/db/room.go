package db

import "time"

type Room struct {
	ID                   uint      `gorm:"primaryKey"`
	Code                 string    `gorm:"size:12;uniqueIndex;not null"`
	HostID               string    `gorm:"size:36;not null"`
	Status               string    `gorm:"size:16;not null;default:waiting"`
	Phase                string    `gorm:"size:16;not null;default:waiting"`
	CurrentSetNumber     int       `gorm:"not null;default:0"`
	CurrentRoundNumber   int       `gorm:"not null;default:0"`
	TriunfoCardID        *uint     `gorm:"index"`
	CurrentAttribute     *string   `gorm:"size:8"`
	RoundStarterPosition int       `gorm:"not null;default:0"`
	EndedReason          string    `gorm:"size:32"`
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
	Players              []Player
	Hands                []HandCard
	TurnOrders           []TurnOrder
	Plays                []RoundPlay
	Chat                 []ChatMessage
	Events               []Event
}
