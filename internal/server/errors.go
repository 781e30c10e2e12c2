package server

import "errors"

// Precondition violations. Reported to the acting user as a non-fatal
// notice; state is left unchanged.
var (
	errRoomNotFound   = errors.New("room not found")
	errPlayerNotFound = errors.New("player not found")
	errRoomEnded      = errors.New("room has ended")
	errWrongPhase     = errors.New("action not allowed in current phase")
	errNotHost        = errors.New("only the host can do that")
	errNeedPlayers    = errors.New("need at least 2 players to start")
	errRoomFull       = errors.New("room is full")
	errAlreadyStarted = errors.New("game already started")
	errStartInFlight  = errors.New("a start is already in progress")
	errNotYourTurn    = errors.New("not your turn")
	errAttributeSet   = errors.New("attribute already selected for this round")
	errAttributeUnset = errors.New("select an attribute first")
	errNotStarter     = errors.New("only the round starter can select the attribute")
	errCardNotInHand  = errors.New("card not in your hand")
)

// errStaleIntent marks an intent that no longer matches current state
// (phase moved on, plays still arriving). Stale intents are discarded
// silently with no side effects, never surfaced to the user.
var errStaleIntent = errors.New("stale intent")

// Fatal start-game failures and validation errors.
var (
	errInvalidDeck      = errors.New("deck must contain exactly 40 cards")
	errBidOutOfRange    = errors.New("bid out of range")
	errInvalidAttribute = errors.New("unknown attribute")
)
