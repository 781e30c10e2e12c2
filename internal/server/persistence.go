package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"el-triunfo/internal/db"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// The persistence layer mirrors committed in-memory mutations to Postgres.
// Every method tolerates a nil connection so the server (and its tests) can
// run fully in memory. A failed multi-step transition does not roll back
// steps already committed; each step is idempotent and resumable instead.

func (s *Server) persistRoom(room *Room) error {
	if s.db == nil {
		return nil
	}
	record := db.Room{
		Code:   room.Code,
		HostID: room.HostID,
		Status: room.Status,
		Phase:  room.Phase,
	}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		return err
	}
	room.DBID = record.ID
	newID := fmt.Sprintf("room-%d", record.ID)
	if room.ID != newID {
		s.store.UpdateRoomID(room, newID)
	}
	return s.persistEvent(room, "room_created", EventPayload{
		RoomID: room.ID,
		Code:   room.Code,
	})
}

func (s *Server) persistPlayer(room *Room, player *Player) error {
	if s.db == nil {
		return nil
	}
	if player.DBID != 0 {
		return nil
	}
	if err := s.ensureRoomDBID(room); err != nil {
		return err
	}
	if room.DBID == 0 {
		return errRoomNotFound
	}
	record := db.Player{
		RoomID:     room.DBID,
		Identity:   player.ID,
		Name:       player.Name,
		SeatNumber: player.SeatNumber,
		LastSeen:   time.Now().UTC(),
		JoinedAt:   time.Now().UTC(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			existing, lookupErr := s.findPlayerDBID(room.DBID, player.ID)
			if lookupErr == nil && existing != 0 {
				player.DBID = existing
				return nil
			}
		}
		return err
	}
	player.DBID = record.ID
	return s.persistEvent(room, "player_joined", EventPayload{
		PlayerID:   player.ID,
		PlayerName: player.Name,
	})
}

// persistPlayerState patches the mutable per-player columns.
func (s *Server) persistPlayerState(room *Room, player *Player) error {
	if s.db == nil {
		return nil
	}
	if player.DBID == 0 {
		if err := s.persistPlayer(room, player); err != nil {
			return err
		}
	}
	if player.DBID == 0 {
		return errPlayerNotFound
	}
	updates := map[string]any{
		"predicted_rounds": player.PredictedRounds,
		"won_rounds":       player.WonRounds,
		"has_bid":          player.HasBid,
		"total_score":      player.TotalScore,
		"last_seen":        player.LastSeen,
	}
	return s.db.Model(&db.Player{}).Where("id = ?", player.DBID).Updates(updates).Error
}

// persistRoomState patches every game-state column of the room row in one
// write, so clients polling the row always see a coherent room record.
func (s *Server) persistRoomState(room *Room) error {
	if s.db == nil {
		return nil
	}
	if err := s.ensureRoomDBID(room); err != nil {
		return err
	}
	if room.DBID == 0 {
		return errRoomNotFound
	}
	var triunfoID *uint
	if room.TriunfoCard != nil {
		id := room.TriunfoCard.ID
		triunfoID = &id
	}
	var attribute *string
	if room.CurrentAttribute != "" {
		attr := room.CurrentAttribute
		attribute = &attr
	}
	updates := map[string]any{
		"status":                 room.Status,
		"phase":                  room.Phase,
		"current_set_number":     room.CurrentSetNumber,
		"current_round_number":   room.CurrentRoundNumber,
		"triunfo_card_id":        triunfoID,
		"current_attribute":      attribute,
		"round_starter_position": room.RoundStarterPosition,
		"ended_reason":           room.EndedReason,
	}
	return s.db.Model(&db.Room{}).Where("id = ?", room.DBID).Updates(updates).Error
}

// persistSetCleanup removes the previous set's dependent rows. Turn-order
// entries in particular must be fully cleared before the new permutation is
// written.
func (s *Server) persistSetCleanup(room *Room) error {
	if s.db == nil {
		return nil
	}
	if err := s.ensureRoomDBID(room); err != nil {
		return err
	}
	if room.DBID == 0 {
		return nil
	}
	if err := s.db.Where("room_id = ?", room.DBID).Delete(&db.HandCard{}).Error; err != nil {
		return err
	}
	if err := s.db.Where("room_id = ?", room.DBID).Delete(&db.RoundPlay{}).Error; err != nil {
		return err
	}
	return s.db.Where("room_id = ?", room.DBID).Delete(&db.TurnOrder{}).Error
}

func (s *Server) persistTurnOrder(room *Room) error {
	if s.db == nil {
		return nil
	}
	if room.DBID == 0 {
		return nil
	}
	if err := s.db.Where("room_id = ?", room.DBID).Delete(&db.TurnOrder{}).Error; err != nil {
		return err
	}
	for i := range room.TurnOrder {
		entry := &room.TurnOrder[i]
		player, ok := s.store.FindPlayer(room, entry.PlayerID)
		if !ok || player.DBID == 0 {
			return errPlayerNotFound
		}
		record := db.TurnOrder{
			RoomID:   room.DBID,
			PlayerID: player.DBID,
			Position: entry.Position,
		}
		if err := s.db.Create(&record).Error; err != nil {
			return err
		}
		entry.DBID = record.ID
	}
	return nil
}

func (s *Server) persistHands(room *Room) error {
	if s.db == nil {
		return nil
	}
	if room.DBID == 0 {
		return nil
	}
	for playerID, hand := range room.Hands {
		player, ok := s.store.FindPlayer(room, playerID)
		if !ok || player.DBID == 0 {
			return errPlayerNotFound
		}
		for i := range hand {
			record := db.HandCard{
				RoomID:   room.DBID,
				PlayerID: player.DBID,
				CardID:   hand[i].Card.ID,
			}
			if err := s.db.Create(&record).Error; err != nil {
				return err
			}
			hand[i].DBID = record.ID
		}
	}
	return nil
}

func (s *Server) persistPlay(room *Room, play *RoundPlay) error {
	if s.db == nil {
		return nil
	}
	if room.DBID == 0 {
		return nil
	}
	player, ok := s.store.FindPlayer(room, play.PlayerID)
	if !ok || player.DBID == 0 {
		return errPlayerNotFound
	}
	record := db.RoundPlay{
		RoomID:        room.DBID,
		PlayerID:      player.DBID,
		CardID:        play.Card.ID,
		Attribute:     play.Attribute,
		Value:         play.Value,
		TiebreakTotal: play.TiebreakTotal,
		PlayedAt:      play.PlayedAt,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}
	play.DBID = record.ID
	if handCard, found := room.HandCard(play.PlayerID, play.Card.ID); found && handCard.DBID != 0 {
		return s.db.Model(&db.HandCard{}).
			Where("id = ?", handCard.DBID).
			Update("played", true).Error
	}
	return nil
}

func (s *Server) persistClearPlays(room *Room) error {
	if s.db == nil {
		return nil
	}
	if room.DBID == 0 {
		return nil
	}
	return s.db.Where("room_id = ?", room.DBID).Delete(&db.RoundPlay{}).Error
}

func (s *Server) persistChatMessage(room *Room, entry *ChatEntry) error {
	if s.db == nil {
		return nil
	}
	if err := s.ensureRoomDBID(room); err != nil {
		return err
	}
	if room.DBID == 0 {
		return nil
	}
	var playerID *uint
	if player, ok := s.store.FindPlayer(room, entry.PlayerID); ok && player.DBID != 0 {
		id := player.DBID
		playerID = &id
	}
	record := db.ChatMessage{
		RoomID:     room.DBID,
		PlayerID:   playerID,
		PlayerName: entry.PlayerName,
		Message:    entry.Message,
		CreatedAt:  entry.SentAt,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}
	entry.DBID = record.ID
	return nil
}

func (s *Server) deletePlayerRow(room *Room, playerDBID uint) error {
	if s.db == nil || playerDBID == 0 {
		return nil
	}
	return s.db.Where("id = ?", playerDBID).Delete(&db.Player{}).Error
}

func (s *Server) persistEvent(room *Room, eventType string, payload EventPayload) error {
	if s.db == nil {
		return nil
	}
	if err := s.ensureRoomDBID(room); err != nil {
		return err
	}
	if room.DBID == 0 {
		return errRoomNotFound
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		RoomID:   room.DBID,
		PlayerID: s.resolveEventPlayerID(room, payload),
		Type:     eventType,
		Payload:  datatypes.JSON(data),
	}
	return s.db.Create(&event).Error
}

func (s *Server) resolveEventPlayerID(room *Room, payload EventPayload) *uint {
	if payload.PlayerID == "" {
		return nil
	}
	player, found := s.store.FindPlayer(room, payload.PlayerID)
	if found && player.DBID != 0 {
		value := player.DBID
		return &value
	}
	return nil
}

func (s *Server) ensureRoomDBID(room *Room) error {
	if s.db == nil || room.DBID != 0 {
		return nil
	}
	var record db.Room
	if err := s.db.Where("code = ?", room.Code).First(&record).Error; err != nil {
		return nil
	}
	room.DBID = record.ID
	return nil
}

func (s *Server) findPlayerDBID(roomDBID uint, identity string) (uint, error) {
	var record db.Player
	if err := s.db.Where("room_id = ? AND identity = ?", roomDBID, identity).First(&record).Error; err != nil {
		return 0, err
	}
	return record.ID, nil
}

func (s *Server) fetchCatalog() ([]Card, error) {
	var records []db.Card
	if err := s.db.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	cards := make([]Card, 0, len(records))
	for _, record := range records {
		cards = append(cards, Card{
			ID:   record.ID,
			Name: record.Name,
			Car:  record.Car,
			Cul:  record.Cul,
			Tet:  record.Tet,
			Fis:  record.Fis,
			Per:  record.Per,
		})
	}
	return cards, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
