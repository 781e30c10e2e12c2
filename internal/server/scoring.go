package server

import "el-triunfo/internal/logging"

// scoreSet is the per-player scoring rule: two points per won round, plus
// three for an exact prediction, minus two otherwise. A player who never
// bid is scored against a prediction of zero.
func scoreSet(predicted *int, won, priorTotal int) (points, newTotal int) {
	target := 0
	if predicted != nil {
		target = *predicted
	}
	points = won * 2
	if target == won {
		points += 3
	} else {
		points -= 2
	}
	return points, priorTotal + points
}

type setResult struct {
	PlayerID  string `json:"player_id"`
	Name      string `json:"name"`
	Predicted int    `json:"predicted"`
	Won       int    `json:"won"`
	Points    int    `json:"points"`
	Total     int    `json:"total"`
}

// endSet scores every player in one pass, then either ends the game at the
// winning threshold or resets the room to waiting for the next set. Per-set
// player fields are re-initialized at the next set start, not here.
func (s *Server) endSet(roomID string) {
	var results []setResult
	var gameOver bool
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		if room.Status != statusPlaying || room.Phase != phaseScoring {
			return errStaleIntent
		}
		for i := range room.Players {
			player := &room.Players[i]
			points, total := scoreSet(player.PredictedRounds, player.WonRounds, player.TotalScore)
			player.TotalScore = total
			predicted := 0
			if player.PredictedRounds != nil {
				predicted = *player.PredictedRounds
			}
			results = append(results, setResult{
				PlayerID:  player.ID,
				Name:      player.Name,
				Predicted: predicted,
				Won:       player.WonRounds,
				Points:    points,
				Total:     total,
			})
			if total >= winningScore {
				gameOver = true
			}
		}
		if gameOver {
			room.Status = statusEnded
			room.EndedReason = endedReasonCompleted
			return nil
		}
		if err := setPhase(room, phaseWaiting); err != nil {
			return err
		}
		room.Status = statusWaiting
		return nil
	})
	if err != nil {
		return
	}

	for i := range room.Players {
		if err := s.persistPlayerState(room, &room.Players[i]); err != nil {
			s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("persist scores failed")
		}
		s.broadcastChange(room.ID, tablePlayers, eventUpdate, nil, playerPayload(&room.Players[i]))
	}
	if err := s.persistRoomState(room); err != nil {
		s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("persist set end failed")
	}
	if err := s.persistEvent(room, "set_scored", EventPayload{
		SetNumber: room.CurrentSetNumber,
		Results:   results,
	}); err != nil {
		s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("persist set_scored event failed")
	}
	s.broadcastChange(room.ID, tableRooms, eventUpdate, nil, roomPayload(room))
	s.logger.Info().
		Str(logging.RoomIDKey, room.ID).
		Int(logging.SetKey, room.CurrentSetNumber).
		Bool("gameOver", gameOver).
		Msg("set scored")

	if gameOver {
		s.cancelRoomTimer(room.ID)
	}
}
