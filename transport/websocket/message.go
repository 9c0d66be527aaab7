package websocket

import (
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/internal/event"
	"github.com/rocketscienceinc/tictactoe-board/internal/game"
)

// client actions
const (
	actionSessionNew    = "session:new"
	actionSessionResume = "session:resume"
	actionClick         = "click"
	actionMove          = "move"
	actionReset         = "reset"
)

// server messages
const (
	actionRender = "render"
	actionCue    = "cue"
	actionState  = "state"
	actionError  = "error"
	actionQuit   = "quit"
)

// Message is what a client sends. Payload fields depend on the action.
type Message struct {
	Action  string         `json:"action"`
	Payload map[string]any `json:"payload,omitempty"`
}

type resumePayload struct {
	SessionID string `mapstructure:"session_id"`
}

type clickPayload struct {
	X *float64 `mapstructure:"x"`
	Y *float64 `mapstructure:"y"`
}

// Cell arrives as a JSON number; only whole values name a cell.
type movePayload struct {
	Cell *float64 `mapstructure:"cell"`
}

// Response is what the server sends.
type Response struct {
	Action  string `json:"action"`
	Payload any    `json:"payload,omitempty"`
}

type StatePayload struct {
	Session *entity.Session  `json:"session"`
	Result  game.ClickResult `json:"result"`
	Reason  string           `json:"reason,omitempty"`
}

type CuePayload struct {
	Cue event.Cue `json:"cue"`
}

type ErrorPayload struct {
	Action string `json:"action,omitempty"`
	Error  string `json:"error"`
}
