package server

import "el-triunfo/internal/logging"

// SubmitBid records one player's predicted round-win count for the set.
// A repeated submission is a no-op, so a double-click cannot bid twice.
func (s *Server) SubmitBid(roomID, playerID string, bid int) error {
	var already bool
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		if room.Status == statusEnded {
			return errRoomEnded
		}
		if room.Phase != phaseBidding {
			return errWrongPhase
		}
		player, ok := s.store.FindPlayer(room, playerID)
		if !ok {
			return errPlayerNotFound
		}
		if player.HasBid {
			already = true
			return nil
		}
		if bid < 0 || bid > room.CardsPerPlayer() {
			return errBidOutOfRange
		}
		predicted := bid
		player.PredictedRounds = &predicted
		player.HasBid = true
		return nil
	})
	if err != nil {
		return err
	}
	if already {
		return nil
	}

	player, _ := s.store.FindPlayer(room, playerID)
	if err := s.persistPlayerState(room, player); err != nil {
		// The bid is not committed on a failed write: roll the flag back
		// so the player can retry.
		_, _ = s.store.UpdateRoom(roomID, func(room *Room) error {
			if p, ok := s.store.FindPlayer(room, playerID); ok {
				p.HasBid = false
				p.PredictedRounds = nil
			}
			return nil
		})
		return err
	}

	s.broadcastChange(room.ID, tablePlayers, eventUpdate, nil, playerPayload(player))
	s.logger.Info().
		Str(logging.RoomIDKey, room.ID).
		Str(logging.PlayerIDKey, playerID).
		Int("bid", bid).
		Msg("bid submitted")

	// The all-bid condition is re-polled rather than trusted to event
	// delivery; concurrent submissions commute through the count.
	s.scheduleBidRecheck(room.ID, 0)
	return nil
}

// checkAllBid moves bidding -> playing once every seated player has bid.
// Re-scheduled up to the configured attempt budget to cover delivery gaps,
// then gives up until the next bid re-arms it.
func (s *Server) checkAllBid(roomID string, attempt int) {
	advanced := false
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		if room.Status != statusPlaying || room.Phase != phaseBidding {
			return errStaleIntent
		}
		if len(room.Players) == 0 || room.BiddedCount() < len(room.Players) {
			return nil
		}
		if err := setPhase(room, phasePlaying); err != nil {
			return err
		}
		room.CurrentRoundNumber = 1
		room.CurrentAttribute = ""
		room.RoundStarterPosition = 0
		advanced = true
		return nil
	})
	if err != nil {
		return
	}
	if !advanced {
		if attempt+1 < s.cfg.BidRecheckAttempts {
			s.scheduleBidRecheck(roomID, attempt+1)
		}
		return
	}

	if err := s.persistRoomState(room); err != nil {
		s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("persist playing phase failed")
	}
	s.broadcastChange(room.ID, tableRooms, eventUpdate, nil, roomPayload(room))
	s.logger.Info().
		Str(logging.RoomIDKey, room.ID).
		Int(logging.RoundKey, room.CurrentRoundNumber).
		Msg("all bids in, play begins")
}
