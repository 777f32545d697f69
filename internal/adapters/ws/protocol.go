package ws

import (
	"encoding/json"

	"typerace/internal/domain"
)

// Envelope is the client->server message frame. One websocket text
// message carries exactly one envelope.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

const (
	typeChooseMode = "choose_mode"
	typeAction     = "multiplayer_action"
	typeSubmit     = "submit_result"
	typePing       = "ping"
)

type chooseModePayload struct {
	Mode string `json:"mode"`
}

type actionPayload struct {
	Action string `json:"action"`
	RoomID string `json:"room_id"`
}

type submitPayload struct {
	Text     string  `json:"text"`
	Time     float64 `json:"time"`
	Original string  `json:"original"`
}

// connState tracks where one connection is in the protocol. It is
// mutated only by that connection's own readPump.
type connState string

const (
	stateConnected    connState = "connected"
	stateSinglePlayer connState = "single_player"
	stateMenu         connState = "multiplayer_menu"
	stateRoomWaiting  connState = "in_room_waiting"
	stateRoomPlaying  connState = "in_room_playing"
	stateFinished     connState = "finished"
)

// Server->client messages. Single-player challenge/result keep their
// fields at the top level.

type challengeMsg struct {
	Type     string `json:"type"`
	Sentence string `json:"sentence"`
}

type roomCreatedMsg struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
}

type gameStartMsg struct {
	Type     string `json:"type"`
	Sentence string `json:"sentence"`
}

type gameResultMsg struct {
	Type    string        `json:"type"`
	Results domain.Result `json:"results"`
}

type gameOverMsg struct {
	Type    string                   `json:"type"`
	Results map[string]domain.Result `json:"results"`
	Winner  string                   `json:"winner"`
}

type opponentLeftMsg struct {
	Type string `json:"type"`
}

type errorMsg struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type pongMsg struct {
	Type string `json:"type"`
}
