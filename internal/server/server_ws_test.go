package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialRoom(t *testing.T, ts *httptest.Server, roomID, role string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/rooms/" + roomID
	if role != "" {
		url += "?role=" + role
	}
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readWSMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg map[string]any
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestWebsocketSnapshotOnConnect(t *testing.T) {
	srv := newGameServer(t)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	roomID, _ := createRoom(t, ts, "Ana")
	conn := dialRoom(t, ts, roomID, "")

	msg := readWSMessage(t, conn)
	assert.Equal(t, "snapshot", msg["kind"])
	room, _ := msg["room"].(map[string]any)
	require.NotNil(t, room)
	assert.Equal(t, roomID, room["id"])
	players, _ := msg["players"].([]any)
	assert.Len(t, players, 1)
}

func TestWebsocketReceivesChangeEvents(t *testing.T) {
	srv := newGameServer(t)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	roomID, _ := createRoom(t, ts, "Ana")
	conn := dialRoom(t, ts, roomID, "")
	_ = readWSMessage(t, conn) // snapshot

	joinPlayer(t, ts, roomID, "Blas")

	msg := readWSMessage(t, conn)
	assert.Equal(t, "change", msg["kind"])
	assert.Equal(t, eventInsert, msg["event_type"])
	assert.Equal(t, tablePlayers, msg["table"])
	joined, _ := msg["new"].(map[string]any)
	require.NotNil(t, joined)
	assert.Equal(t, "Blas", joined["name"])
}

func TestWebsocketUnknownRoomIsNotFound(t *testing.T) {
	srv := newGameServer(t)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/rooms/room-404"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHostDisconnectEndsRoom(t *testing.T) {
	srv := newGameServer(t)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	roomID, _ := createRoom(t, ts, "Ana")
	host := dialRoom(t, ts, roomID, wsRoleHost)
	_ = readWSMessage(t, host)

	require.NoError(t, host.Close())

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		room, ok := srv.store.GetRoom(roomID)
		require.True(t, ok)
		if room.Status == statusEnded {
			assert.Equal(t, endedReasonHostLeft, room.EndedReason)
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("room never ended after host disconnect")
}

func TestSecondHostTabKeepsRoomAlive(t *testing.T) {
	srv := newGameServer(t)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	roomID, _ := createRoom(t, ts, "Ana")
	first := dialRoom(t, ts, roomID, wsRoleHost)
	_ = readWSMessage(t, first)
	second := dialRoom(t, ts, roomID, wsRoleHost)
	_ = readWSMessage(t, second)

	require.NoError(t, first.Close())
	time.Sleep(200 * time.Millisecond)

	room, ok := srv.store.GetRoom(roomID)
	require.True(t, ok)
	assert.NotEqual(t, statusEnded, room.Status)
}
