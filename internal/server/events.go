package server

// EventPayload is the body of one append-only log entry. Fields are
// omitted when empty so each event type carries only what it needs.
type EventPayload struct {
	RoomID      string      `json:"room_id,omitempty"`
	Code        string      `json:"code,omitempty"`
	PlayerID    string      `json:"player_id,omitempty"`
	PlayerName  string      `json:"player,omitempty"`
	Phase       string      `json:"phase,omitempty"`
	Status      string      `json:"status,omitempty"`
	SetNumber   int         `json:"set_number,omitempty"`
	RoundNumber int         `json:"round_number,omitempty"`
	Attribute   string      `json:"attribute,omitempty"`
	CardID      uint        `json:"card_id,omitempty"`
	Value       int         `json:"value,omitempty"`
	Bid         *int        `json:"bid,omitempty"`
	Reason      string      `json:"reason,omitempty"`
	Results     []setResult `json:"results,omitempty"`
	Count       int         `json:"count,omitempty"`
}
