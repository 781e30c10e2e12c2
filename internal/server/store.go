package server

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Store struct {
	mu     sync.Mutex
	nextID int
	rooms  map[string]*Room
}

func NewStore() *Store {
	return &Store{
		nextID: 1,
		rooms:  make(map[string]*Room),
	}
}

func (s *Store) CreateRoom() *Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("room-%d", s.nextID)
	s.nextID++
	room := &Room{
		ID:     id,
		Code:   newJoinCode(),
		Status: statusWaiting,
		Phase:  phaseWaiting,
		Hands:  make(map[string][]HandCard),
	}
	s.rooms[id] = room
	return room
}

func (s *Store) GetRoom(id string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	return room, ok
}

// UpdateRoom runs update while holding the store lock, so every caller
// observes and mutates a consistent room. Resolvers re-verify their
// preconditions inside update instead of trusting previously-read state.
func (s *Store) UpdateRoom(id string, update func(room *Room) error) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, errRoomNotFound
	}
	if err := update(room); err != nil {
		return nil, err
	}
	return room, nil
}

// ViewRoom runs view while holding the store lock, resolving either a room
// ID or a join code. Payload builders that walk player lists and hands use
// it so a concurrent UpdateRoom cannot mutate mid-read.
func (s *Store) ViewRoom(roomIDOrCode string, view func(room *Room)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomIDOrCode]
	if !ok {
		code := strings.ToUpper(strings.TrimSpace(roomIDOrCode))
		for _, candidate := range s.rooms {
			if candidate.Code == code {
				room = candidate
				ok = true
				break
			}
		}
	}
	if !ok {
		return false
	}
	view(room)
	return true
}

func (s *Store) UpdateRoomID(room *Room, newID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room.ID == newID {
		return
	}
	delete(s.rooms, room.ID)
	room.ID = newID
	s.rooms[newID] = room
}

// AddPlayer seats a player in the room. A returning identity reclaims its
// existing seat; the first player to join becomes the host.
func (s *Store) AddPlayer(roomIDOrCode, identity, name string) (*Room, *Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[roomIDOrCode]
	if !ok {
		code := strings.ToUpper(strings.TrimSpace(roomIDOrCode))
		for _, candidate := range s.rooms {
			if candidate.Code == code {
				room = candidate
				ok = true
				break
			}
		}
	}
	if !ok {
		return nil, nil, errRoomNotFound
	}
	if room.Status == statusEnded {
		return nil, nil, errRoomEnded
	}

	for i := range room.Players {
		if room.Players[i].ID == identity {
			room.Players[i].LastSeen = timeNowUTC()
			return room, &room.Players[i], nil
		}
	}
	if room.Status != statusWaiting {
		return nil, nil, errAlreadyStarted
	}
	if len(room.Players) >= maxPlayers {
		return nil, nil, errRoomFull
	}

	player := Player{
		ID:         identity,
		Name:       name,
		SeatNumber: nextSeatNumber(room),
		IsHost:     len(room.Players) == 0,
		LastSeen:   timeNowUTC(),
	}
	room.Players = append(room.Players, player)
	if player.IsHost {
		room.HostID = player.ID
	}
	return room, &room.Players[len(room.Players)-1], nil
}

// RemovePlayer unseats a player. The second return reports whether the
// host left, which callers treat as an immediate abort signal.
func (s *Store) RemovePlayer(roomID, playerID string) (*Room, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, false, errRoomNotFound
	}
	kept := room.Players[:0]
	found := false
	for _, player := range room.Players {
		if player.ID == playerID {
			found = true
			continue
		}
		kept = append(kept, player)
	}
	if !found {
		return room, false, errPlayerNotFound
	}
	room.Players = kept
	delete(room.Hands, playerID)
	return room, playerID == room.HostID, nil
}

func (s *Store) DeleteRoom(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

func (s *Store) ListRoomSummaries() []RoomSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]RoomSummary, 0, len(s.rooms))
	for _, room := range s.rooms {
		list = append(list, RoomSummary{
			ID:      room.ID,
			Code:    room.Code,
			Phase:   room.Phase,
			Status:  room.Status,
			Players: len(room.Players),
		})
	}
	sort.Slice(list, func(i, j int) bool {
		return roomSortKey(list[i].ID) < roomSortKey(list[j].ID)
	})
	return list
}

func roomSortKey(id string) int {
	parts := strings.Split(id, "-")
	if len(parts) < 2 {
		return 0
	}
	value, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0
	}
	return value
}

func (s *Store) GetPlayer(roomID, playerID string) (*Room, *Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, nil, false
	}
	for i := range room.Players {
		if room.Players[i].ID == playerID {
			return room, &room.Players[i], true
		}
	}
	return room, nil, false
}

func (s *Store) FindPlayer(room *Room, playerID string) (*Player, bool) {
	for i := range room.Players {
		if room.Players[i].ID == playerID {
			return &room.Players[i], true
		}
	}
	return nil, false
}

func nextSeatNumber(room *Room) int {
	taken := make(map[int]bool, len(room.Players))
	for _, player := range room.Players {
		taken[player.SeatNumber] = true
	}
	for seat := 1; seat <= maxPlayers; seat++ {
		if !taken[seat] {
			return seat
		}
	}
	return len(room.Players) + 1
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
