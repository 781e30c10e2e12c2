package server

import "el-triunfo/internal/logging"

// SendChat appends a room chat message and broadcasts it as an INSERT
// event. The in-memory history is trimmed to the configured limit; the
// full log lives in the database when one is configured.
func (s *Server) SendChat(roomID, playerID, message string) (*ChatEntry, error) {
	message, err := validateMessage(message)
	if err != nil {
		return nil, err
	}
	var entry ChatEntry
	room, err := s.store.UpdateRoom(roomID, func(room *Room) error {
		player, ok := s.store.FindPlayer(room, playerID)
		if !ok {
			return errPlayerNotFound
		}
		entry = ChatEntry{
			PlayerID:   player.ID,
			PlayerName: player.Name,
			Message:    message,
			SentAt:     timeNowUTC(),
		}
		room.Chat = append(room.Chat, entry)
		if limit := s.cfg.ChatHistoryLimit; limit > 0 && len(room.Chat) > limit {
			room.Chat = room.Chat[len(room.Chat)-limit:]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.persistChatMessage(room, &entry); err != nil {
		s.logger.Error().Err(err).Str(logging.RoomIDKey, room.ID).Msg("persist chat message failed")
	}
	s.broadcastChange(room.ID, tableChat, eventInsert, nil, chatPayload(&entry))
	return &entry, nil
}

// ChatHistory returns the most recent messages, oldest first.
func (s *Server) ChatHistory(roomID string) ([]ChatEntry, error) {
	var history []ChatEntry
	ok := s.store.ViewRoom(roomID, func(room *Room) {
		history = make([]ChatEntry, len(room.Chat))
		copy(history, room.Chat)
	})
	if !ok {
		return nil, errRoomNotFound
	}
	return history, nil
}
