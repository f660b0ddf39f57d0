package messages

import (
	"encoding/json"

	"breach-tactics/server/view"
)

// MessageType defines the type of message being sent
type MessageType string

// Client to server
const (
	MessageTypeNewGame   MessageType = "new_game"
	MessageTypeJoin      MessageType = "join"
	MessageTypeClick     MessageType = "click"
	MessageTypeMove      MessageType = "move"
	MessageTypeEndTurn   MessageType = "end_turn"
	MessageTypeSave      MessageType = "save"
	MessageTypeLoad      MessageType = "load"
	MessageTypeReload    MessageType = "reload"
	MessageTypeListSaves MessageType = "list_saves"
)

// Server to client
const (
	MessageTypeSession MessageType = "session"
	MessageTypeState   MessageType = "state"
	MessageTypeSaves   MessageType = "saves"
	MessageTypeOutcome MessageType = "outcome"
	MessageTypeError   MessageType = "error"
)

// Error codes carried by ErrorMessage
const (
	CodeBadMessage  = "BAD_MESSAGE"
	CodeNoSession   = "NO_SESSION"
	CodeBadLevel    = "BAD_LEVEL"
	CodeSaveRefused = "SAVE_REFUSED"
	CodeLoadFailed  = "LOAD_FAILED"
	CodeGameOver    = "GAME_OVER"
	CodeInternal    = "INTERNAL"
)

// BaseMessage is the base structure for all outgoing messages
type BaseMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Envelope is an incoming message with its payload left undecoded
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewGameMessage starts a game on a level; an empty level means the default
type NewGameMessage struct {
	Level string `json:"level"`
}

// JoinMessage attaches the client to an existing session
type JoinMessage struct {
	SessionID string `json:"session_id"`
}

// ClickMessage is a click on a board cell
type ClickMessage struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MoveMessage moves the unit at (row, col) to (to_row, to_col)
type MoveMessage struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	ToRow int `json:"to_row"`
	ToCol int `json:"to_col"`
}

// SaveMessage names a save slot for save and load
type SaveMessage struct {
	Name string `json:"name"`
}

// SessionMessage tells the client which session it is bound to
type SessionMessage struct {
	SessionID string `json:"session_id"`
	Level     string `json:"level"`
}

// StateMessage carries a full frame
type StateMessage struct {
	SessionID string     `json:"session_id"`
	Frame     view.Frame `json:"frame"`
}

// SavesMessage lists stored saves
type SavesMessage struct {
	Names []string `json:"names"`
}

// OutcomeMessage announces the end of a game
type OutcomeMessage struct {
	Outcome string `json:"outcome"`
	Turn    int    `json:"turn"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
