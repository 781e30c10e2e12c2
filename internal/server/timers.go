package server

import "time"

// One timer slot per room: the phases that use deferred work (triunfo
// reveal, bid re-check, round resolution) never overlap, so a newly
// scheduled timer replaces whatever was pending.
func (s *Server) scheduleRoomTimer(roomID string, delay time.Duration, fn func()) {
	s.timersMu.Lock()
	if existing, ok := s.timers[roomID]; ok {
		existing.Stop()
	}
	s.timers[roomID] = time.AfterFunc(delay, fn)
	s.timersMu.Unlock()
}

func (s *Server) cancelRoomTimer(roomID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if timer, ok := s.timers[roomID]; ok {
		timer.Stop()
		delete(s.timers, roomID)
	}
}

func (s *Server) scheduleTriunfoReveal(roomID string) {
	delay := time.Duration(s.cfg.TriunfoRevealSeconds) * time.Second
	s.scheduleRoomTimer(roomID, delay, func() {
		s.advanceToBidding(roomID)
	})
}

func (s *Server) scheduleBidRecheck(roomID string, attempt int) {
	delay := time.Duration(s.cfg.BidRecheckMillis) * time.Millisecond
	s.scheduleRoomTimer(roomID, delay, func() {
		s.checkAllBid(roomID, attempt)
	})
}

// scheduleRoundResolve defers resolution briefly so the last play settles
// on every client before the outcome lands.
func (s *Server) scheduleRoundResolve(roomID string, expectedRound int) {
	delay := time.Duration(s.cfg.ResolveDelayMillis) * time.Millisecond
	s.scheduleRoomTimer(roomID, delay, func() {
		s.resolveRound(roomID, expectedRound)
	})
}
