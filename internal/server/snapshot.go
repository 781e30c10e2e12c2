package server

// Snapshot and row payload builders. A snapshot carries the full public
// state of a room so a freshly connected client can reconcile from scratch;
// hands stay private and are fetched per player.

func snapshot(room *Room) map[string]any {
	players := make([]map[string]any, 0, len(room.Players))
	for i := range room.Players {
		players = append(players, playerPayload(&room.Players[i]))
	}
	turnOrder := make([]map[string]any, 0, len(room.TurnOrder))
	for i := range room.TurnOrder {
		turnOrder = append(turnOrder, turnOrderPayload(&room.TurnOrder[i]))
	}
	plays := make([]map[string]any, 0, len(room.Plays))
	for i := range room.Plays {
		plays = append(plays, playPayload(&room.Plays[i]))
	}
	return map[string]any{
		"kind":          "snapshot",
		"room":          roomPayload(room),
		"players":       players,
		"turn_order":    turnOrder,
		"current_plays": plays,
		"remaining":     room.RemainingUnplayed(),
	}
}

func roomPayload(room *Room) map[string]any {
	payload := map[string]any{
		"id":                     room.ID,
		"code":                   room.Code,
		"host_id":                room.HostID,
		"status":                 room.Status,
		"phase":                  room.Phase,
		"current_set":            room.CurrentSetNumber,
		"current_round":          room.CurrentRoundNumber,
		"round_starter_position": room.RoundStarterPosition,
	}
	if room.CurrentAttribute != "" {
		payload["current_attribute"] = room.CurrentAttribute
	}
	if room.TriunfoCard != nil {
		payload["triunfo_card"] = cardPayload(*room.TriunfoCard)
	}
	if room.EndedReason != "" {
		payload["ended_reason"] = room.EndedReason
	}
	return payload
}

func playerPayload(player *Player) map[string]any {
	payload := map[string]any{
		"id":          player.ID,
		"name":        player.Name,
		"seat_number": player.SeatNumber,
		"is_host":     player.IsHost,
		"won_rounds":  player.WonRounds,
		"has_bid":     player.HasBid,
		"total_score": player.TotalScore,
	}
	// The bid amount stays hidden until the player has committed it.
	if player.HasBid && player.PredictedRounds != nil {
		payload["predicted_rounds"] = *player.PredictedRounds
	}
	return payload
}

func turnOrderPayload(entry *TurnOrderEntry) map[string]any {
	return map[string]any{
		"player_id": entry.PlayerID,
		"position":  entry.Position,
	}
}

func playPayload(play *RoundPlay) map[string]any {
	return map[string]any{
		"player_id":      play.PlayerID,
		"card":           cardPayload(play.Card),
		"attribute":      play.Attribute,
		"value":          play.Value,
		"tiebreak_total": play.TiebreakTotal,
		"played_at":      play.PlayedAt,
	}
}

func cardPayload(card Card) map[string]any {
	return map[string]any{
		"id":   card.ID,
		"name": card.Name,
		"car":  card.Car,
		"cul":  card.Cul,
		"tet":  card.Tet,
		"fis":  card.Fis,
		"per":  card.Per,
	}
}

func handPayload(hand []HandCard) []map[string]any {
	cards := make([]map[string]any, 0, len(hand))
	for _, handCard := range hand {
		if handCard.Played {
			continue
		}
		cards = append(cards, cardPayload(handCard.Card))
	}
	return cards
}

func chatPayload(entry *ChatEntry) map[string]any {
	return map[string]any{
		"player_id":   entry.PlayerID,
		"player_name": entry.PlayerName,
		"message":     entry.Message,
		"sent_at":     entry.SentAt,
	}
}
