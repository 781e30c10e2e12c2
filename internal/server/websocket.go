package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"el-triunfo/internal/logging"

	"github.com/gorilla/websocket"
)

// Change-notification stream: every committed row mutation is delivered to
// all clients watching the room as an {event_type, table, old, new} event,
// mirroring the shape of the store's realtime channel. Delivery is
// best-effort; clients reconcile against snapshots and the polling
// fallbacks cover the gaps.
const (
	eventInsert = "INSERT"
	eventUpdate = "UPDATE"
	eventDelete = "DELETE"
)

const (
	tableRooms     = "rooms"
	tablePlayers   = "players"
	tableHandCards = "hand_cards"
	tableTurnOrder = "turn_order"
	tablePlays     = "round_plays"
	tableChat      = "chat_messages"
)

type changeEvent struct {
	Kind      string `json:"kind"`
	EventType string `json:"event_type"`
	Table     string `json:"table"`
	Old       any    `json:"old,omitempty"`
	New       any    `json:"new,omitempty"`
}

type wsHub struct {
	mu     sync.Mutex
	groups map[string]map[*websocket.Conn]struct{}
	hosts  map[string]map[*websocket.Conn]struct{}
}

func newWSHub() *wsHub {
	return &wsHub{
		groups: make(map[string]map[*websocket.Conn]struct{}),
		hosts:  make(map[string]map[*websocket.Conn]struct{}),
	}
}

func (h *wsHub) Add(roomID string, conn *websocket.Conn, isHost bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[roomID]
	if group == nil {
		group = make(map[*websocket.Conn]struct{})
		h.groups[roomID] = group
	}
	group[conn] = struct{}{}
	if isHost {
		hostGroup := h.hosts[roomID]
		if hostGroup == nil {
			hostGroup = make(map[*websocket.Conn]struct{})
			h.hosts[roomID] = hostGroup
		}
		hostGroup[conn] = struct{}{}
	}
}

func (h *wsHub) Remove(roomID string, conn *websocket.Conn, isHost bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.groups[roomID]
	if group == nil {
		return
	}
	delete(group, conn)
	_ = conn.Close()
	if len(group) == 0 {
		delete(h.groups, roomID)
	}
	if isHost {
		hostGroup := h.hosts[roomID]
		if hostGroup != nil {
			delete(hostGroup, conn)
			if len(hostGroup) == 0 {
				delete(h.hosts, roomID)
			}
		}
	}
}

func (h *wsHub) Send(conn *websocket.Conn, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, data)
}

func (h *wsHub) Broadcast(roomID string, payload any) {
	h.mu.Lock()
	group := h.groups[roomID]
	conns := make([]*websocket.Conn, 0, len(group))
	for conn := range group {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.Remove(roomID, conn, false)
		}
	}
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	roomID, ok := parseWebsocketPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, exists := s.store.GetRoom(roomID); !exists {
		http.NotFound(w, r)
		return
	}
	isHost := r.URL.Query().Get("role") == wsRoleHost
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.logger.Info().
		Str(logging.RoomIDKey, roomID).
		Str("remote", r.RemoteAddr).
		Bool("host", isHost).
		Msg("ws connected")
	s.ws.Add(roomID, conn, isHost)
	var snap map[string]any
	if s.store.ViewRoom(roomID, func(room *Room) { snap = snapshot(room) }) {
		s.ws.Send(conn, snap)
	}
	go s.readWS(roomID, conn, isHost)
}

func (s *Server) readWS(roomID string, conn *websocket.Conn, isHost bool) {
	// Deferred calls run in reverse order: the connection must be removed
	// from the hub before the host-departure check counts what is left.
	if isHost {
		defer s.endRoomFromHost(roomID)
	}
	defer s.ws.Remove(roomID, conn, isHost)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			s.logger.Info().
				Str(logging.RoomIDKey, roomID).
				Err(err).
				Msg("ws disconnected")
			return
		}
	}
}

// endRoomFromHost aborts the room when the host's last connection drops.
// Another tab of the same host keeps the room alive.
func (s *Server) endRoomFromHost(roomID string) {
	s.ws.mu.Lock()
	remaining := len(s.ws.hosts[roomID])
	s.ws.mu.Unlock()
	if remaining > 0 {
		return
	}
	s.endRoom(roomID, endedReasonHostLeft)
}

func (s *Server) broadcastChange(roomID, table, eventType string, old, updated any) {
	if s.ws == nil {
		return
	}
	s.ws.Broadcast(roomID, changeEvent{
		Kind:      "change",
		EventType: eventType,
		Table:     table,
		Old:       old,
		New:       updated,
	})
}
