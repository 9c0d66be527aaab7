package entity

import (
	"fmt"
	"time"
)

// Mark is the content of a single cell.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// IsValid reports whether the mark is one of the known cell states.
func (that Mark) IsValid() bool {
	return that == EmptyCell || that == PlayerX || that == PlayerO
}

// Player is the number of the player whose turn it is: 1 moves first.
type Player int

const (
	NoPlayer  Player = 0
	PlayerOne Player = 1
	PlayerTwo Player = 2
)

// Mark - returns the mark the player puts on the board.
func (that Player) Mark() Mark {
	switch that {
	case PlayerOne:
		return PlayerX
	case PlayerTwo:
		return PlayerO
	default:
		return EmptyCell
	}
}

// Other - returns the opponent.
func (that Player) Other() Player {
	if that == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

func (that Player) IsValid() bool {
	return that == PlayerOne || that == PlayerTwo
}

// PlayerOf - returns the player owning the mark, NoPlayer for an empty cell.
func PlayerOf(mark Mark) Player {
	switch mark {
	case PlayerX:
		return PlayerOne
	case PlayerO:
		return PlayerTwo
	default:
		return NoPlayer
	}
}

// Outcome is the result of a game: still running, won by one of the players, or drawn.
type Outcome string

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomePlayerOne  Outcome = "player_1"
	OutcomePlayerTwo  Outcome = "player_2"
	OutcomeDraw       Outcome = "draw"
)

// WinFor - returns the outcome where the given player has won.
func WinFor(player Player) Outcome {
	switch player {
	case PlayerOne:
		return OutcomePlayerOne
	case PlayerTwo:
		return OutcomePlayerTwo
	default:
		return OutcomeInProgress
	}
}

func (that Outcome) IsOver() bool {
	return that == OutcomePlayerOne || that == OutcomePlayerTwo || that == OutcomeDraw
}

func (that Outcome) IsDraw() bool {
	return that == OutcomeDraw
}

// Winner - returns the winning player, NoPlayer for a draw or a running game.
func (that Outcome) Winner() Player {
	switch that {
	case OutcomePlayerOne:
		return PlayerOne
	case OutcomePlayerTwo:
		return PlayerTwo
	default:
		return NoPlayer
	}
}

func (that Outcome) IsValid() bool {
	return that == OutcomeInProgress || that.IsOver()
}

// String - returns the terminal banner text for finished games.
func (that Outcome) String() string {
	switch that {
	case OutcomePlayerOne, OutcomePlayerTwo:
		return fmt.Sprintf("Player %d won!", that.Winner())
	case OutcomeDraw:
		return "Draw!"
	default:
		return string(that)
	}
}

// GameState is a plain copy of everything needed to rebuild a game.
type GameState struct {
	Size    int     `json:"size"`
	Cells   []Mark  `json:"cells"`
	Turn    Player  `json:"turn"`
	Outcome Outcome `json:"outcome"`
}

// Session is a game state owned by one client of the server.
type Session struct {
	ID string `json:"id"`
	GameState
	UpdatedAt time.Time `json:"updated_at"`
}

func (that *Session) IsFinished() bool {
	return that.Outcome.IsOver()
}
