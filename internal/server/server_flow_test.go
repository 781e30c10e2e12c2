package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFullSetOverHTTP drives a complete two-player set through the public
// API: create, join, start, bid, then twenty rounds of attribute selection
// and plays, finishing with the set scored and the room back to waiting.
// Timer-driven steps are invoked directly so the test does not sleep.
func TestFullSetOverHTTP(t *testing.T) {
	srv := newGameServer(t)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	roomID, hostID := createRoom(t, ts, "Ana")
	guestID := joinPlayer(t, ts, roomID, "Blas")

	resp := doRequest(t, ts, http.MethodGet, "/api/rooms", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listing := decodeBody(t, resp)
	require.Len(t, listing["rooms"], 1)

	resp = doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/start", map[string]any{"player_id": hostID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, ts, http.MethodGet, "/api/rooms/"+roomID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeBody(t, resp)
	roomState, _ := snap["room"].(map[string]any)
	require.NotNil(t, roomState)
	assert.Equal(t, "triunfo", roomState["phase"])
	assert.Equal(t, "playing", roomState["status"])
	assert.NotNil(t, roomState["triunfo_card"])

	resp = doRequest(t, ts, http.MethodGet, "/api/rooms/"+roomID+"/players/"+hostID+"/hand", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	hand := decodeBody(t, resp)
	cards, _ := hand["cards"].([]any)
	assert.Len(t, cards, 20)

	// The reveal timer would fire this after the configured delay.
	srv.advanceToBidding(roomID)

	for _, playerID := range []string{hostID, guestID} {
		resp = doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/bids", map[string]any{
			"player_id": playerID,
			"bid":       10,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	srv.checkAllBid(roomID, 0)

	room, ok := srv.store.GetRoom(roomID)
	require.True(t, ok)
	require.Equal(t, phasePlaying, room.Phase)
	require.Equal(t, 1, room.CurrentRoundNumber)

	for round := 1; round <= 20; round++ {
		room, ok = srv.store.GetRoom(roomID)
		require.True(t, ok)
		leadID, ok := room.PlayerAtPosition(room.RoundStarterPosition)
		require.True(t, ok)
		followID := hostID
		if leadID == hostID {
			followID = guestID
		}

		resp = doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/attribute", map[string]any{
			"player_id": leadID,
			"attribute": "fis",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, "attribute, round %d", round)

		for _, playerID := range []string{leadID, followID} {
			resp = doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/plays", map[string]any{
				"player_id": playerID,
				"card_id":   firstUnplayed(t, srv, roomID, playerID),
			})
			require.Equal(t, http.StatusOK, resp.StatusCode, "play by %s, round %d", playerID, round)
		}

		// The resolve timer would fire this after the configured delay.
		srv.resolveRound(roomID, round)
	}

	room, ok = srv.store.GetRoom(roomID)
	require.True(t, ok)
	assert.Equal(t, statusWaiting, room.Status)
	assert.Equal(t, phaseWaiting, room.Phase)
	assert.Equal(t, 0, room.RemainingUnplayed())

	won := 0
	for _, player := range room.Players {
		won += player.WonRounds
	}
	assert.Equal(t, 20, won)
}

func TestCreateRoomValidation(t *testing.T) {
	srv := newGameServer(t)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	resp := doRequest(t, ts, http.MethodPost, "/api/rooms", map[string]any{"name": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, ts, http.MethodPost, "/api/rooms", map[string]any{
		"name": "this name is far too long for a seat",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestJoinByCodeAndErrorCodes(t *testing.T) {
	srv := newGameServer(t)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	roomID, hostID := createRoom(t, ts, "Ana")
	room, ok := srv.store.GetRoom(roomID)
	require.True(t, ok)

	resp := doRequest(t, ts, http.MethodPost, "/api/rooms/"+room.Code+"/join", map[string]any{"name": "Blas"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, ts, http.MethodPost, "/api/rooms/NOSUCH/join", map[string]any{"name": "Carla"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Starting twice is a conflict, not a server fault.
	resp = doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/start", map[string]any{"player_id": hostID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/start", map[string]any{"player_id": hostID})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSnapshotHidesUncommittedBids(t *testing.T) {
	srv := newGameServer(t)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	roomID, hostID := createRoom(t, ts, "Ana")
	guestID := joinPlayer(t, ts, roomID, "Blas")
	resp := doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/start", map[string]any{"player_id": hostID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	srv.advanceToBidding(roomID)

	resp = doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/bids", map[string]any{
		"player_id": hostID,
		"bid":       7,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, ts, http.MethodGet, "/api/rooms/"+roomID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeBody(t, resp)
	players, _ := snap["players"].([]any)
	require.Len(t, players, 2)
	for _, raw := range players {
		player, _ := raw.(map[string]any)
		require.NotNil(t, player)
		switch player["id"] {
		case hostID:
			assert.Equal(t, true, player["has_bid"])
			assert.Equal(t, float64(7), player["predicted_rounds"])
		case guestID:
			assert.Equal(t, false, player["has_bid"])
			assert.Nil(t, player["predicted_rounds"])
		}
	}
}

func TestChatOverHTTP(t *testing.T) {
	srv := newGameServer(t)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	roomID, hostID := createRoom(t, ts, "Ana")

	resp := doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/chat", map[string]any{
		"player_id": hostID,
		"message":   "hola sala",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, ts, http.MethodGet, "/api/rooms/"+roomID+"/chat", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decodeBody(t, resp)
	messages, _ := history["messages"].([]any)
	require.Len(t, messages, 1)
	first, _ := messages[0].(map[string]any)
	require.NotNil(t, first)
	assert.Equal(t, "hola sala", first["message"])
	assert.Equal(t, "Ana", first["player_name"])
}

func TestLeaveEndsRoomWhenHostGoes(t *testing.T) {
	srv := newGameServer(t)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	roomID, hostID := createRoom(t, ts, "Ana")
	joinPlayer(t, ts, roomID, "Blas")

	resp := doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/leave", map[string]any{"player_id": hostID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	room, ok := srv.store.GetRoom(roomID)
	require.True(t, ok)
	assert.Equal(t, statusEnded, room.Status)
	assert.Equal(t, endedReasonHostLeft, room.EndedReason)
}
