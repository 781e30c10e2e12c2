package server

import (
	"errors"

	"el-triunfo/internal/logging"
)

// phaseEdges lists every legal phase transition. No other phase pair is
// reachable; setPhase rejects anything else.
var phaseEdges = map[string][]string{
	phaseWaiting: {phaseTriunfo},
	phaseTriunfo: {phaseBidding},
	phaseBidding: {phasePlaying},
	phasePlaying: {phasePlaying, phaseScoring},
	phaseScoring: {phaseWaiting},
}

func canTransition(from, to string) bool {
	for _, next := range phaseEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

var errIllegalTransition = errors.New("illegal phase transition")

func setPhase(room *Room, phase string) error {
	if !canTransition(room.Phase, phase) {
		return errIllegalTransition
	}
	room.Phase = phase
	return nil
}

// StartSet drives the waiting -> triunfo transition. The sequence is not
// atomic: each step is a separate write and other clients may observe an
// intermediate state, so the trigger is guarded by a per-room in-flight
// flag and every later resolver re-checks its own preconditions.
func (s *Server) StartSet(roomID, playerID string) error {
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		if room.Status == statusEnded {
			return errRoomEnded
		}
		if playerID != room.HostID {
			return errNotHost
		}
		if room.StartInFlight {
			return errStartInFlight
		}
		if room.Status != statusWaiting || room.Phase != phaseWaiting {
			return errAlreadyStarted
		}
		if len(room.Players) < minPlayers {
			return errNeedPlayers
		}
		room.StartInFlight = true
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.runSetStart(room.ID); err != nil {
		// Abort: revert to the pre-start state so the host can retry.
		_, _ = s.store.UpdateRoom(room.ID, func(room *Room) error {
			room.StartInFlight = false
			return nil
		})
		s.logger.Error().Err(err).
			Str(logging.RoomIDKey, room.ID).
			Msg("start set failed")
		return err
	}
	return nil
}

func (s *Server) runSetStart(roomID string) error {
	// Step 1: clear the previous set's hands, plays and turn order. Old
	// turn-order entries must be fully gone before new ones are written;
	// partial application would corrupt position lookups.
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		room.Hands = make(map[string][]HandCard)
		room.Plays = nil
		room.TurnOrder = nil
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.persistSetCleanup(room); err != nil {
		return err
	}

	// Step 2: reset every player's per-set fields.
	room, err = s.store.UpdateRoom(roomID, func(room *Room) error {
		for i := range room.Players {
			room.Players[i].PredictedRounds = nil
			room.Players[i].WonRounds = 0
			room.Players[i].HasBid = false
		}
		return nil
	})
	if err != nil {
		return err
	}
	for i := range room.Players {
		if err := s.persistPlayerState(room, &room.Players[i]); err != nil {
			return err
		}
		s.broadcastChange(room.ID, tablePlayers, eventUpdate, nil, playerPayload(&room.Players[i]))
	}

	// Step 3: assign a fresh turn order.
	entries := assignTurnOrder(room.Players)
	room, err = s.store.UpdateRoom(roomID, func(room *Room) error {
		room.TurnOrder = entries
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.persistTurnOrder(room); err != nil {
		return err
	}
	for i := range room.TurnOrder {
		s.broadcastChange(room.ID, tableTurnOrder, eventInsert, nil, turnOrderPayload(&room.TurnOrder[i]))
	}

	// Step 4: deal. An invalid catalog is fatal for the whole start.
	result, err := deal(room.Players, s.catalog)
	if err != nil {
		return err
	}
	room, err = s.store.UpdateRoom(roomID, func(room *Room) error {
		for playerID, cards := range result.HandsByPlayer {
			hand := make([]HandCard, 0, len(cards))
			for _, card := range cards {
				hand = append(hand, HandCard{Card: card})
			}
			room.Hands[playerID] = hand
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.persistHands(room); err != nil {
		return err
	}
	for playerID, hand := range room.Hands {
		s.broadcastChange(room.ID, tableHandCards, eventInsert, nil, map[string]any{
			"player_id": playerID,
			"cards":     len(hand),
		})
	}

	// Step 5: reveal the triumph card and enter the triunfo phase.
	triumph := result.TriumphCard
	room, err = s.store.UpdateRoom(roomID, func(room *Room) error {
		if err := setPhase(room, phaseTriunfo); err != nil {
			return err
		}
		room.Status = statusPlaying
		room.TriunfoCard = &triumph
		room.CurrentSetNumber++
		room.CurrentRoundNumber = 0
		room.CurrentAttribute = ""
		room.RoundStarterPosition = 0
		room.StartInFlight = false
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.persistRoomState(room); err != nil {
		return err
	}
	if err := s.persistEvent(room, "set_started", EventPayload{
		SetNumber: room.CurrentSetNumber,
		CardID:    triumph.ID,
	}); err != nil {
		s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("persist set_started event failed")
	}
	s.broadcastChange(room.ID, tableRooms, eventUpdate, nil, roomPayload(room))
	s.logger.Info().
		Str(logging.RoomIDKey, room.ID).
		Int(logging.SetKey, room.CurrentSetNumber).
		Str("triunfo", triumph.Name).
		Msg("set started")

	s.scheduleTriunfoReveal(room.ID)
	return nil
}

// advanceToBidding fires once per set, a fixed delay after the triunfo
// reveal. Re-entry after the phase has moved on is a silent no-op.
func (s *Server) advanceToBidding(roomID string) {
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		if room.Status != statusPlaying || room.Phase != phaseTriunfo {
			return errStaleIntent
		}
		return setPhase(room, phaseBidding)
	})
	if err != nil {
		return
	}
	if err := s.persistRoomState(room); err != nil {
		s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("persist bidding phase failed")
	}
	s.broadcastChange(room.ID, tableRooms, eventUpdate, nil, roomPayload(room))
	s.logger.Info().
		Str(logging.RoomIDKey, room.ID).
		Str(logging.PhaseKey, room.Phase).
		Msg("bidding open")
}

// endRoom is the abort path for room-lifecycle events (host leaves, room
// abandoned). It stops the game regardless of phase.
func (s *Server) endRoom(roomID, reason string) {
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		if room.Status == statusEnded {
			return errStaleIntent
		}
		room.Status = statusEnded
		room.EndedReason = reason
		return nil
	})
	if err != nil {
		return
	}
	s.cancelRoomTimer(room.ID)
	if err := s.persistRoomState(room); err != nil {
		s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("persist room end failed")
	}
	if err := s.persistEvent(room, "room_ended", EventPayload{Reason: reason}); err != nil {
		s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("persist room_ended event failed")
	}
	s.broadcastChange(room.ID, tableRooms, eventUpdate, nil, roomPayload(room))
	s.logger.Info().
		Str(logging.RoomIDKey, room.ID).
		Str("reason", reason).
		Msg("room ended")
}
