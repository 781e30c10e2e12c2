package server

import (
	"errors"
	"net/http"

	"el-triunfo/internal/logging"
)

type createRoomRequest struct {
	Name     string `json:"name" validate:"required,playername"`
	PlayerID string `json:"player_id"`
}

type joinRequest struct {
	Name     string `json:"name" validate:"required,playername"`
	PlayerID string `json:"player_id"`
}

type playerRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
}

type bidRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	Bid      *int   `json:"bid" validate:"required"`
}

type attributeRequest struct {
	PlayerID  string `json:"player_id" validate:"required"`
	Attribute string `json:"attribute" validate:"required,oneof=car cul tet fis per"`
}

type playRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	CardID   uint   `json:"card_id" validate:"required"`
}

type chatRequest struct {
	PlayerID string `json:"player_id" validate:"required"`
	Message  string `json:"message" validate:"required"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	identity := req.PlayerID
	if !isValidIdentity(identity) {
		identity = newPlayerIdentity()
	}

	room := s.store.CreateRoom()
	if err := s.persistRoom(room); err != nil {
		s.store.DeleteRoom(room.ID)
		writeError(w, http.StatusInternalServerError, "failed to create room")
		return
	}
	room, player, err := s.store.AddPlayer(room.ID, identity, name)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	if err := s.persistPlayer(room, player); err != nil {
		s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("persist host failed")
	}
	s.logger.Info().
		Str(logging.RoomIDKey, room.ID).
		Str(logging.RoomCodeKey, room.Code).
		Str(logging.PlayerIDKey, player.ID).
		Msg("room created")
	writeJSON(w, http.StatusCreated, map[string]any{
		"room_id":   room.ID,
		"code":      room.Code,
		"player_id": player.ID,
	})
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	summaries := s.store.ListRoomSummaries()
	rooms := make([]map[string]any, 0, len(summaries))
	for _, summary := range summaries {
		rooms = append(rooms, map[string]any{
			"id":      summary.ID,
			"code":    summary.Code,
			"phase":   summary.Phase,
			"status":  summary.Status,
			"players": summary.Players,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": rooms})
}

func (s *Server) handleRoomSubroutes(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		if roomID, playerID, ok := parseHandPath(r.URL.Path); ok {
			s.handleHand(w, r, roomID, playerID)
			return
		}
	}
	roomID, action, ok := parseRoomPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if r.Method == http.MethodGet {
		switch action {
		case "":
			s.handleRoomSnapshot(w, r, roomID)
		case "chat":
			s.handleChatHistory(w, r, roomID)
		default:
			http.NotFound(w, r)
		}
		return
	}
	switch action {
	case "join":
		s.handleJoin(w, r, roomID)
	case "leave":
		s.handleLeave(w, r, roomID)
	case "start":
		s.handleStart(w, r, roomID)
	case "bids":
		s.handleBid(w, r, roomID)
	case "attribute":
		s.handleAttribute(w, r, roomID)
	case "plays":
		s.handlePlay(w, r, roomID)
	case "heartbeat":
		s.handleHeartbeat(w, r, roomID)
	case "chat":
		s.handleChat(w, r, roomID)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleRoomSnapshot(w http.ResponseWriter, r *http.Request, roomID string) {
	var payload map[string]any
	if !s.store.ViewRoom(roomID, func(room *Room) { payload = snapshot(room) }) {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request, roomIDOrCode string) {
	var req joinRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name, err := validateName(req.Name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	identity := req.PlayerID
	if !isValidIdentity(identity) {
		identity = newPlayerIdentity()
	}

	room, player, err := s.store.AddPlayer(roomIDOrCode, identity, name)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	if err := s.persistPlayer(room, player); err != nil {
		s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("persist player failed")
	}
	s.broadcastChange(room.ID, tablePlayers, eventInsert, nil, playerPayload(player))
	s.logger.Info().
		Str(logging.RoomIDKey, room.ID).
		Str(logging.PlayerIDKey, player.ID).
		Int("seat", player.SeatNumber).
		Msg("player joined")
	writeJSON(w, http.StatusOK, map[string]any{
		"room_id":     room.ID,
		"code":        room.Code,
		"player_id":   player.ID,
		"seat_number": player.SeatNumber,
		"is_host":     player.IsHost,
	})
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request, roomID string) {
	var req playerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.LeaveRoom(roomID, req.PlayerID); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"left": true})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request, roomID string) {
	var req playerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.StartSet(roomID, req.PlayerID); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"started": true})
}

func (s *Server) handleBid(w http.ResponseWriter, r *http.Request, roomID string) {
	var req bidRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.SubmitBid(roomID, req.PlayerID, *req.Bid); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bid": *req.Bid})
}

func (s *Server) handleAttribute(w http.ResponseWriter, r *http.Request, roomID string) {
	var req attributeRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.SelectAttribute(roomID, req.PlayerID, req.Attribute); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"attribute": req.Attribute})
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request, roomID string) {
	var req playRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.PlayCard(roomID, req.PlayerID, req.CardID); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"played": req.CardID})
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request, roomID string) {
	var req playerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.Heartbeat(roomID, req.PlayerID); err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, roomID string) {
	var req chatRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := s.SendChat(roomID, req.PlayerID, req.Message)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, chatPayload(entry))
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request, roomID string) {
	history, err := s.ChatHistory(roomID)
	if err != nil {
		writeError(w, errorStatus(err), err.Error())
		return
	}
	messages := make([]map[string]any, 0, len(history))
	for i := range history {
		messages = append(messages, chatPayload(&history[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (s *Server) handleHand(w http.ResponseWriter, r *http.Request, roomID, playerID string) {
	var payload map[string]any
	s.store.ViewRoom(roomID, func(room *Room) {
		player, ok := s.store.FindPlayer(room, playerID)
		if !ok {
			return
		}
		payload = map[string]any{
			"player_id": player.ID,
			"cards":     handPayload(room.Hands[player.ID]),
		}
	})
	if payload == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// errorStatus maps the error taxonomy onto response codes: validation
// failures are 400, unknown rooms/players 404, precondition violations
// 409, anything else a server fault.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, errRoomNotFound), errors.Is(err, errPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, errBidOutOfRange), errors.Is(err, errInvalidAttribute):
		return http.StatusBadRequest
	case errors.Is(err, errWrongPhase),
		errors.Is(err, errNotHost),
		errors.Is(err, errNeedPlayers),
		errors.Is(err, errRoomFull),
		errors.Is(err, errAlreadyStarted),
		errors.Is(err, errStartInFlight),
		errors.Is(err, errNotYourTurn),
		errors.Is(err, errNotStarter),
		errors.Is(err, errAttributeSet),
		errors.Is(err, errAttributeUnset),
		errors.Is(err, errCardNotInHand),
		errors.Is(err, errRoomEnded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
