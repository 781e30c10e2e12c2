package server

import "time"

const (
	phaseWaiting = "waiting"
	phaseTriunfo = "triunfo"
	phaseBidding = "bidding"
	phasePlaying = "playing"
	phaseScoring = "scoring"
)

const (
	statusWaiting = "waiting"
	statusPlaying = "playing"
	statusEnded   = "ended"
)

const (
	endedReasonCompleted = "completed"
	endedReasonHostLeft  = "host_disconnected"
	endedReasonAbandoned = "abandoned"
)

const (
	deckSize     = 40
	winningScore = 50
	// A played triumph card always carries this value, beating any
	// printed attribute.
	triunfoValue = 99
	minPlayers   = 2
	maxPlayers   = 5
)

const (
	wsRolePlayer = "player"
	wsRoleHost   = "host"
)

// cardsPerPlayerByCount is a fixed game rule, not configurable at runtime.
var cardsPerPlayerByCount = map[int]int{2: 20, 3: 13, 4: 10, 5: 8}

type RoomSummary struct {
	ID      string
	Code    string
	Phase   string
	Status  string
	Players int
}

// Room is the authoritative copy of one match. All mutation goes through
// Store.UpdateRoom so preconditions are always re-checked against current
// state before acting.
type Room struct {
	ID                   string
	DBID                 uint
	Code                 string
	HostID               string
	Status               string
	Phase                string
	CurrentSetNumber     int
	CurrentRoundNumber   int
	TriunfoCard          *Card
	CurrentAttribute     string
	RoundStarterPosition int
	EndedReason          string
	StartInFlight        bool
	Players              []Player
	TurnOrder            []TurnOrderEntry
	Hands                map[string][]HandCard
	Plays                []RoundPlay
	Chat                 []ChatEntry
}

type ChatEntry struct {
	DBID       uint
	PlayerID   string
	PlayerName string
	Message    string
	SentAt     time.Time
}

type Player struct {
	ID              string
	DBID            uint
	Name            string
	SeatNumber      int
	IsHost          bool
	PredictedRounds *int
	WonRounds       int
	HasBid          bool
	TotalScore      int
	LastSeen        time.Time
}

// TurnOrderEntry positions are a permutation of 0..N-1, regenerated fresh
// at every set start.
type TurnOrderEntry struct {
	DBID     uint
	PlayerID string
	Position int
}

type HandCard struct {
	DBID   uint
	Card   Card
	Played bool
}

// RoundPlay order in Room.Plays is insertion order; the resolver relies on
// it for the final tie-break.
type RoundPlay struct {
	DBID          uint
	PlayerID      string
	Card          Card
	Attribute     string
	Value         int
	TiebreakTotal int
	PlayedAt      time.Time
}
