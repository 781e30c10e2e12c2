package server

import (
	"sort"
	"time"

	"el-triunfo/internal/logging"
)

// Heartbeat refreshes a player's liveness timestamp. Browsers call it on a
// short interval; the reaper removes anyone who goes silent.
func (s *Server) Heartbeat(roomID, playerID string) error {
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		player, ok := s.store.FindPlayer(room, playerID)
		if !ok {
			return errPlayerNotFound
		}
		player.LastSeen = timeNowUTC()
		return nil
	})
	if err != nil {
		return err
	}
	if player, ok := s.store.FindPlayer(room, playerID); ok {
		if err := s.persistPlayerState(room, player); err != nil {
			s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("persist heartbeat failed")
		}
	}
	return nil
}

// LeaveRoom unseats a player on explicit leave or reaped disconnect. The
// host leaving, or the room emptying out, aborts the whole room.
func (s *Server) LeaveRoom(roomID, playerID string) error {
	room, player, ok := s.store.GetPlayer(roomID, playerID)
	if !ok || player == nil {
		return errPlayerNotFound
	}
	playerDBID := player.DBID
	playerName := player.Name

	room, hostLeft, err := s.store.RemovePlayer(roomID, playerID)
	if err != nil {
		return err
	}
	if err := s.deletePlayerRow(room, playerDBID); err != nil {
		s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("delete player row failed")
	}
	s.broadcastChange(room.ID, tablePlayers, eventDelete, map[string]any{
		"id":   playerID,
		"name": playerName,
	}, nil)
	s.logger.Info().
		Str(logging.RoomIDKey, room.ID).
		Str(logging.PlayerIDKey, playerID).
		Msg("player left")

	switch {
	case hostLeft:
		s.endRoom(room.ID, endedReasonHostLeft)
	case len(room.Players) == 0:
		s.endRoom(room.ID, endedReasonAbandoned)
	case room.Status == statusPlaying && len(room.Players) < minPlayers:
		s.endRoom(room.ID, endedReasonAbandoned)
	case room.Status == statusPlaying:
		s.compactAfterLeave(room.ID, playerID)
	}
	return nil
}

// compactAfterLeave repairs a live set after a mid-set departure: positions
// are re-packed to 0..N-1 so the acting-position formula keeps addressing a
// seated player, the leaver's pending play is discarded, and whichever gate
// the leaver was blocking (all-bid, round completion) is re-checked.
func (s *Server) compactAfterLeave(roomID, playerID string) {
	var roundNumber int
	var roundComplete, checkBids bool
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		if room.Status != statusPlaying {
			return errStaleIntent
		}
		oldPosition := -1
		kept := make([]TurnOrderEntry, 0, len(room.TurnOrder))
		for _, entry := range room.TurnOrder {
			if entry.PlayerID == playerID {
				oldPosition = entry.Position
				continue
			}
			kept = append(kept, entry)
		}
		if oldPosition == -1 {
			return errStaleIntent
		}
		sort.Slice(kept, func(i, j int) bool { return kept[i].Position < kept[j].Position })
		for i := range kept {
			kept[i].Position = i
		}
		room.TurnOrder = kept

		// The starter index shifts down past the vacated slot; a starter
		// who was the leaver falls through to the next position, which now
		// occupies the same index.
		if room.RoundStarterPosition > oldPosition {
			room.RoundStarterPosition--
		}
		if room.RoundStarterPosition >= len(kept) {
			room.RoundStarterPosition = 0
		}

		for i := range room.Plays {
			if room.Plays[i].PlayerID == playerID {
				room.Plays = append(room.Plays[:i], room.Plays[i+1:]...)
				break
			}
		}

		switch room.Phase {
		case phaseBidding:
			checkBids = true
		case phasePlaying:
			roundNumber = room.CurrentRoundNumber
			roundComplete = len(room.Plays) >= len(room.Players)
		}
		return nil
	})
	if err != nil {
		return
	}

	if err := s.persistTurnOrder(room); err != nil {
		s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("persist compacted turn order failed")
	}
	if err := s.persistRoomState(room); err != nil {
		s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("persist room after leave failed")
	}
	s.broadcastChange(room.ID, tableTurnOrder, eventDelete, map[string]any{"room_id": room.ID}, nil)
	for i := range room.TurnOrder {
		s.broadcastChange(room.ID, tableTurnOrder, eventInsert, nil, turnOrderPayload(&room.TurnOrder[i]))
	}
	s.broadcastChange(room.ID, tablePlays, eventDelete, map[string]any{
		"room_id":   room.ID,
		"player_id": playerID,
	}, nil)
	s.broadcastChange(room.ID, tableRooms, eventUpdate, nil, roomPayload(room))
	s.logger.Info().
		Str(logging.RoomIDKey, room.ID).
		Str(logging.PlayerIDKey, playerID).
		Int(logging.PositionKey, room.RoundStarterPosition).
		Msg("turn order compacted after leave")

	if checkBids {
		s.checkAllBid(room.ID, 0)
	}
	if roundComplete {
		s.scheduleRoundResolve(room.ID, roundNumber)
	}
}

func (s *Server) reapStalePlayers() {
	timeout := time.Duration(s.cfg.HeartbeatTimeoutSeconds) * time.Second
	cutoff := timeNowUTC().Add(-timeout)
	for _, summary := range s.store.ListRoomSummaries() {
		var stale []string
		_, err := s.store.UpdateRoom(summary.ID, func(room *Room) error {
			if room.Status == statusEnded {
				return nil
			}
			for _, player := range room.Players {
				if player.LastSeen.Before(cutoff) {
					stale = append(stale, player.ID)
				}
			}
			return nil
		})
		if err != nil {
			continue
		}
		for _, playerID := range stale {
			if err := s.LeaveRoom(summary.ID, playerID); err == nil {
				s.logger.Info().
					Str(logging.RoomIDKey, summary.ID).
					Str(logging.PlayerIDKey, playerID).
					Msg("reaped silent player")
			}
		}
	}
}
