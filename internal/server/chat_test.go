package server

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendChatRecordsEntry(t *testing.T) {
	srv := newGameServer(t)
	room := srv.store.CreateRoom()
	_, host, err := srv.store.AddPlayer(room.ID, newPlayerIdentity(), "Ana")
	require.NoError(t, err)

	entry, err := srv.SendChat(room.ID, host.ID, "  buenas   tardes ")
	require.NoError(t, err)
	assert.Equal(t, "buenas tardes", entry.Message)
	assert.Equal(t, "Ana", entry.PlayerName)

	_, err = srv.SendChat(room.ID, "nobody", "hola")
	assert.ErrorIs(t, err, errPlayerNotFound)

	_, err = srv.SendChat(room.ID, host.ID, "   ")
	assert.Error(t, err)
}

func TestChatHistoryTrimsToLimit(t *testing.T) {
	srv := newGameServer(t)
	room := srv.store.CreateRoom()
	_, host, err := srv.store.AddPlayer(room.ID, newPlayerIdentity(), "Ana")
	require.NoError(t, err)

	limit := srv.cfg.ChatHistoryLimit
	for i := 0; i < limit+10; i++ {
		_, err := srv.SendChat(room.ID, host.ID, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	history, err := srv.ChatHistory(room.ID)
	require.NoError(t, err)
	require.Len(t, history, limit)
	assert.Equal(t, fmt.Sprintf("message %d", 10), history[0].Message)
	assert.Equal(t, fmt.Sprintf("message %d", limit+9), history[len(history)-1].Message)

	_, err = srv.ChatHistory("room-404")
	assert.ErrorIs(t, err, errRoomNotFound)
}
