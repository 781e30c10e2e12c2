package server

// CardsPerPlayer returns the fixed deal size for the current player count,
// or 0 when the count is outside the playable range.
func (r *Room) CardsPerPlayer() int {
	return cardsPerPlayerByCount[len(r.Players)]
}

func (r *Room) PositionOf(playerID string) (int, bool) {
	for _, entry := range r.TurnOrder {
		if entry.PlayerID == playerID {
			return entry.Position, true
		}
	}
	return 0, false
}

func (r *Room) PlayerAtPosition(position int) (string, bool) {
	for _, entry := range r.TurnOrder {
		if entry.Position == position {
			return entry.PlayerID, true
		}
	}
	return "", false
}

// RemainingUnplayed counts unplayed hand cards across all players. Reaching
// zero is the authoritative set-over signal; it is robust to any player
// count, unlike a round counter.
func (r *Room) RemainingUnplayed() int {
	remaining := 0
	for _, hand := range r.Hands {
		for _, hc := range hand {
			if !hc.Played {
				remaining++
			}
		}
	}
	return remaining
}

func (r *Room) HandCard(playerID string, cardID uint) (*HandCard, bool) {
	hand := r.Hands[playerID]
	for i := range hand {
		if hand[i].Card.ID == cardID {
			return &hand[i], true
		}
	}
	return nil, false
}

func (r *Room) HasPlayedThisRound(playerID string) bool {
	for _, play := range r.Plays {
		if play.PlayerID == playerID {
			return true
		}
	}
	return false
}

func (r *Room) BiddedCount() int {
	count := 0
	for _, player := range r.Players {
		if player.HasBid {
			count++
		}
	}
	return count
}

func (r *Room) IsTriunfo(cardID uint) bool {
	return r.TriunfoCard != nil && r.TriunfoCard.ID == cardID
}
