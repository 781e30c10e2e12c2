package server

import "math/rand"

// dealResult is one shuffled, partitioned hand assignment plus the set's
// triumph card.
type dealResult struct {
	HandsByPlayer map[string][]Card
	TriumphCard   Card
}

// deal shuffles the full deck and slices contiguous chunks to each player
// in stable player-list order. The triumph card is chosen independently and
// uniformly from the full original deck, so it may or may not be a card
// already dealt to a player: the designation applies wherever the card
// physically is.
func deal(players []Player, deck []Card) (dealResult, error) {
	if len(deck) != deckSize {
		return dealResult{}, errInvalidDeck
	}
	perPlayer, ok := cardsPerPlayerByCount[len(players)]
	if !ok {
		return dealResult{}, errNeedPlayers
	}

	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	hands := make(map[string][]Card, len(players))
	cardIndex := 0
	for _, player := range players {
		hands[player.ID] = shuffled[cardIndex : cardIndex+perPlayer]
		cardIndex += perPlayer
	}

	triumph := deck[rand.Intn(len(deck))]
	return dealResult{HandsByPlayer: hands, TriumphCard: triumph}, nil
}

// assignTurnOrder shuffles the player list uniformly and assigns
// position = index. Positions are a permutation of 0..N-1.
func assignTurnOrder(players []Player) []TurnOrderEntry {
	shuffled := make([]Player, len(players))
	copy(shuffled, players)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	entries := make([]TurnOrderEntry, 0, len(shuffled))
	for i, player := range shuffled {
		entries = append(entries, TurnOrderEntry{PlayerID: player.ID, Position: i})
	}
	return entries
}
