package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDeck(t *testing.T) {
	deck := defaultDeck()
	require.Len(t, deck, deckSize)

	names := make(map[string]bool)
	for _, card := range deck {
		assert.NotZero(t, card.ID)
		assert.False(t, names[card.Name], "duplicate card %q", card.Name)
		names[card.Name] = true
		for _, attr := range attributes {
			value := card.Attribute(attr)
			assert.GreaterOrEqual(t, value, 1, "%s on %q", attr, card.Name)
			assert.LessOrEqual(t, value, 20, "%s on %q", attr, card.Name)
		}
		assert.Equal(t, card.Car+card.Cul+card.Tet+card.Fis+card.Per, card.TotalStats())
	}
}

func TestCardAttributeUnknownKey(t *testing.T) {
	card := Card{Car: 5}
	assert.Zero(t, card.Attribute("altura"))
	assert.False(t, isAttribute("altura"))
	for _, attr := range attributes {
		assert.True(t, isAttribute(attr))
	}
}

func TestRoomPositionLookups(t *testing.T) {
	room := &Room{
		TurnOrder: []TurnOrderEntry{
			{PlayerID: "a", Position: 0},
			{PlayerID: "b", Position: 1},
			{PlayerID: "c", Position: 2},
		},
	}

	pos, ok := room.PositionOf("b")
	require.True(t, ok)
	assert.Equal(t, 1, pos)
	_, ok = room.PositionOf("zz")
	assert.False(t, ok)

	id, ok := room.PlayerAtPosition(2)
	require.True(t, ok)
	assert.Equal(t, "c", id)
	_, ok = room.PlayerAtPosition(9)
	assert.False(t, ok)
}

func TestRoomRemainingUnplayed(t *testing.T) {
	deck := defaultDeck()
	room := &Room{
		Hands: map[string][]HandCard{
			"a": {{Card: deck[0]}, {Card: deck[1], Played: true}},
			"b": {{Card: deck[2], Played: true}, {Card: deck[3], Played: true}},
		},
	}
	assert.Equal(t, 1, room.RemainingUnplayed())

	room.Hands["a"][0].Played = true
	assert.Equal(t, 0, room.RemainingUnplayed())
}

func TestRoomBiddedCountAndTriunfo(t *testing.T) {
	bid := 2
	deck := defaultDeck()
	room := &Room{
		Players: []Player{
			{ID: "a", HasBid: true, PredictedRounds: &bid},
			{ID: "b"},
		},
		TriunfoCard: &deck[4],
	}
	assert.Equal(t, 1, room.BiddedCount())
	assert.True(t, room.IsTriunfo(deck[4].ID))
	assert.False(t, room.IsTriunfo(deck[5].ID))

	room.TriunfoCard = nil
	assert.False(t, room.IsTriunfo(deck[4].ID))
}

func TestCardsPerPlayer(t *testing.T) {
	for count, want := range cardsPerPlayerByCount {
		room := &Room{Players: make([]Player, count)}
		assert.Equal(t, want, room.CardsPerPlayer(), "%d players", count)
	}
}
