package server

import "el-triunfo/internal/logging"

// actingPosition derives whose turn it is from the current play count, not
// from stored per-player turn state: position (starter + k) mod N acts when
// k plays are already on the table.
func actingPosition(starter, playCount, playerCount int) int {
	if playerCount == 0 {
		return starter
	}
	return (starter + playCount) % playerCount
}

// SelectAttribute is the round starter's first step; the chosen attribute
// then applies to every card played this round.
func (s *Server) SelectAttribute(roomID, playerID, attribute string) error {
	if !isAttribute(attribute) {
		return errInvalidAttribute
	}
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		if room.Status == statusEnded {
			return errRoomEnded
		}
		if room.Phase != phasePlaying {
			return errWrongPhase
		}
		position, ok := room.PositionOf(playerID)
		if !ok {
			return errPlayerNotFound
		}
		if position != room.RoundStarterPosition {
			return errNotStarter
		}
		if room.CurrentAttribute != "" {
			return errAttributeSet
		}
		room.CurrentAttribute = attribute
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.persistRoomState(room); err != nil {
		_, _ = s.store.UpdateRoom(roomID, func(room *Room) error {
			room.CurrentAttribute = ""
			return nil
		})
		return err
	}
	s.broadcastChange(room.ID, tableRooms, eventUpdate, nil, roomPayload(room))
	s.logger.Info().
		Str(logging.RoomIDKey, room.ID).
		Str(logging.PlayerIDKey, playerID).
		Str("attribute", attribute).
		Msg("attribute selected")
	return nil
}

// PlayCard records one play for the current round. The acting position is
// re-derived from the live play count on every call, so only one player can
// append at a time per turn.
func (s *Server) PlayCard(roomID, playerID string, cardID uint) error {
	var play RoundPlay
	var roundComplete bool
	var roundNumber int
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		if room.Status == statusEnded {
			return errRoomEnded
		}
		if room.Phase != phasePlaying {
			return errWrongPhase
		}
		if room.CurrentAttribute == "" {
			return errAttributeUnset
		}
		position, ok := room.PositionOf(playerID)
		if !ok {
			return errPlayerNotFound
		}
		if room.HasPlayedThisRound(playerID) {
			return errNotYourTurn
		}
		expected := actingPosition(room.RoundStarterPosition, len(room.Plays), len(room.Players))
		if position != expected {
			return errNotYourTurn
		}
		handCard, ok := room.HandCard(playerID, cardID)
		if !ok || handCard.Played {
			return errCardNotInHand
		}

		value := handCard.Card.Attribute(room.CurrentAttribute)
		if room.IsTriunfo(cardID) {
			value = triunfoValue
		}
		play = RoundPlay{
			PlayerID:      playerID,
			Card:          handCard.Card,
			Attribute:     room.CurrentAttribute,
			Value:         value,
			TiebreakTotal: handCard.Card.TotalStats(),
			PlayedAt:      timeNowUTC(),
		}
		handCard.Played = true
		room.Plays = append(room.Plays, play)
		roundComplete = len(room.Plays) >= len(room.Players)
		roundNumber = room.CurrentRoundNumber
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.persistPlay(room, &play); err != nil {
		// Revert the optimistic hand/table mutation so the player can
		// retry the same card.
		_, _ = s.store.UpdateRoom(roomID, func(room *Room) error {
			if handCard, ok := room.HandCard(playerID, cardID); ok {
				handCard.Played = false
			}
			for i := len(room.Plays) - 1; i >= 0; i-- {
				if room.Plays[i].PlayerID == playerID && room.Plays[i].Card.ID == cardID {
					room.Plays = append(room.Plays[:i], room.Plays[i+1:]...)
					break
				}
			}
			return nil
		})
		return err
	}

	s.broadcastChange(room.ID, tablePlays, eventInsert, nil, playPayload(&play))
	s.broadcastChange(room.ID, tableHandCards, eventUpdate, nil, map[string]any{
		"player_id": playerID,
		"card_id":   cardID,
		"played":    true,
	})
	s.logger.Info().
		Str(logging.RoomIDKey, room.ID).
		Str(logging.PlayerIDKey, playerID).
		Int(logging.RoundKey, roundNumber).
		Str("card", play.Card.Name).
		Int("value", play.Value).
		Msg("card played")

	if roundComplete {
		s.scheduleRoundResolve(room.ID, roundNumber)
	}
	return nil
}

// winningPlay picks the round winner: maximum value, ties broken by maximum
// tiebreak total, remaining ties by insertion order. Strict > comparisons
// keep the first maximal element, so the decision is deterministic for a
// given play sequence.
func winningPlay(plays []RoundPlay) (RoundPlay, bool) {
	if len(plays) == 0 {
		return RoundPlay{}, false
	}
	best := plays[0]
	for _, play := range plays[1:] {
		if play.Value > best.Value {
			best = play
		} else if play.Value == best.Value && play.TiebreakTotal > best.TiebreakTotal {
			best = play
		}
	}
	return best, true
}

// resolveRound runs after the post-play delay. It re-validates the play
// count and round number first: a resolution racing a still-arriving play,
// or one scheduled for a round that already resolved, aborts with no side
// effects.
func (s *Server) resolveRound(roomID string, expectedRound int) {
	var winner RoundPlay
	var setOver bool
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		if room.Status != statusPlaying || room.Phase != phasePlaying {
			return errStaleIntent
		}
		if room.CurrentRoundNumber != expectedRound {
			return errStaleIntent
		}
		if len(room.Plays) < len(room.Players) {
			return errStaleIntent
		}

		won, ok := winningPlay(room.Plays)
		if !ok {
			return errStaleIntent
		}
		winner = won
		if player, found := s.store.FindPlayer(room, winner.PlayerID); found {
			player.WonRounds++
		}
		room.Plays = nil

		if room.RemainingUnplayed() == 0 {
			if err := setPhase(room, phaseScoring); err != nil {
				return err
			}
			setOver = true
			return nil
		}
		if position, found := room.PositionOf(winner.PlayerID); found {
			room.RoundStarterPosition = position
		}
		room.CurrentRoundNumber++
		room.CurrentAttribute = ""
		return nil
	})
	if err != nil {
		return
	}

	if player, ok := s.store.FindPlayer(room, winner.PlayerID); ok {
		if err := s.persistPlayerState(room, player); err != nil {
			s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("persist round winner failed")
		}
		s.broadcastChange(room.ID, tablePlayers, eventUpdate, nil, playerPayload(player))
	}
	if err := s.persistClearPlays(room); err != nil {
		s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("clear round plays failed")
	}
	s.broadcastChange(room.ID, tablePlays, eventDelete, map[string]any{"room_id": room.ID}, nil)
	if err := s.persistRoomState(room); err != nil {
		s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("persist round result failed")
	}
	if err := s.persistEvent(room, "round_resolved", EventPayload{
		PlayerID:    winner.PlayerID,
		RoundNumber: expectedRound,
		CardID:      winner.Card.ID,
		Value:       winner.Value,
	}); err != nil {
		s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("persist round_resolved event failed")
	}
	s.broadcastChange(room.ID, tableRooms, eventUpdate, nil, roomPayload(room))
	s.logger.Info().
		Str(logging.RoomIDKey, room.ID).
		Str(logging.PlayerIDKey, winner.PlayerID).
		Int(logging.RoundKey, expectedRound).
		Str("card", winner.Card.Name).
		Bool("setOver", setOver).
		Msg("round resolved")

	if setOver {
		s.endSet(room.ID)
	}
}
