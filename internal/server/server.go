package server

import (
	"net/http"
	"sync"
	"time"

	"el-triunfo/internal/config"
	"el-triunfo/internal/logging"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var serverLogger = logging.GetZeroLogger("game", nil)

type Server struct {
	store    *Store
	db       *gorm.DB
	ws       *wsHub
	cfg      config.Config
	logger   *zerolog.Logger
	catalog  []Card
	timersMu sync.Mutex
	timers   map[string]*time.Timer
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	s := &Server{
		store:  NewStore(),
		db:     conn,
		ws:     newWSHub(),
		cfg:    cfg,
		logger: serverLogger,
		timers: make(map[string]*time.Timer),
	}
	s.catalog = s.loadCatalog()
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/rooms", s.handleListRooms)
	mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms/", s.handleRoomSubroutes)
	mux.HandleFunc("POST /api/rooms/", s.handleRoomSubroutes)
	mux.HandleFunc("GET /ws/rooms/", s.handleWebsocket)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	return mux
}

// loadCatalog reads the card catalog from the database when one is
// configured; otherwise the built-in deck is used. Deck size is validated
// at deal time, not here, so a half-seeded table fails the start-game
// operation instead of the boot.
func (s *Server) loadCatalog() []Card {
	if s.db == nil {
		return defaultDeck()
	}
	cards, err := s.fetchCatalog()
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load card catalog, using built-in deck")
		return defaultDeck()
	}
	if len(cards) == 0 {
		s.logger.Warn().Msg("card catalog is empty, using built-in deck")
		return defaultDeck()
	}
	s.logger.Info().Int("cards", len(cards)).Msg("card catalog loaded")
	return cards
}

// StartPresenceReaper removes players whose heartbeat has gone silent.
// It returns a stop function.
func (s *Server) StartPresenceReaper() func() {
	interval := time.Duration(s.cfg.HeartbeatTimeoutSeconds) * time.Second / 3
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				s.reapStalePlayers()
			case <-done:
				return
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}
