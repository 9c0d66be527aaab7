package game

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/board"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/internal/event"
)

// Game is the turn and outcome state machine of one board. It is not safe for
// concurrent use: callers feed it one input at a time.
type Game struct {
	grid  *board.Grid
	lines [][]int

	turn    entity.Player
	outcome entity.Outcome

	renderer event.Renderer
	audio    event.Audio
}

type Option func(*Game)

// WithRenderer - sets where drawing events go.
func WithRenderer(renderer event.Renderer) Option {
	return func(g *Game) {
		if renderer != nil {
			g.renderer = renderer
		}
	}
}

// WithAudio - sets where sound cues go. Without it cues are dropped.
func WithAudio(audio event.Audio) Option {
	return func(g *Game) {
		if audio != nil {
			g.audio = audio
		}
	}
}

// New - starts a game on the grid. The grid is cleared.
func New(grid *board.Grid, opts ...Option) *Game {
	game := &Game{
		grid:     grid,
		lines:    WinningLines(grid.Size()),
		turn:     entity.PlayerOne,
		outcome:  entity.OutcomeInProgress,
		renderer: event.Discard,
		audio:    event.Discard,
	}

	for _, opt := range opts {
		opt(game)
	}

	grid.Reset()

	return game
}

// MoveResult tells the caller what became of an input.
type MoveResult struct {
	Accepted bool `json:"accepted"`
	// Reason is set for rejected moves. It is informational, nothing was changed.
	Reason  error          `json:"-"`
	Cell    int            `json:"cell"`
	Player  entity.Player  `json:"player,omitempty"`
	Mark    entity.Mark    `json:"mark,omitempty"`
	Outcome entity.Outcome `json:"outcome"`
}

func (that *Game) rejected(cell int, reason error) MoveResult {
	return MoveResult{
		Reason:  reason,
		Cell:    cell,
		Outcome: that.outcome,
	}
}

// ApplyMove - puts the current player's mark on the cell and passes the turn.
// Moves after the game ended, on occupied cells or off the board are ignored.
func (that *Game) ApplyMove(cell int) MoveResult {
	if that.outcome.IsOver() {
		return that.rejected(cell, apperror.ErrGameFinished)
	}

	if !that.grid.Contains(cell) {
		return that.rejected(cell, fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell))
	}

	if that.grid.StateAt(cell) != entity.EmptyCell {
		return that.rejected(cell, fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, cell))
	}

	player := that.turn
	mark := player.Mark()

	that.grid.SetState(cell, mark)
	that.turn = player.Other()

	that.renderer.Render(event.MarkPlaced(cell, mark))
	that.audio.Play(event.CueFor(player))

	return MoveResult{
		Accepted: true,
		Cell:     cell,
		Player:   player,
		Mark:     mark,
		Outcome:  that.CheckOutcome(),
	}
}

// CheckOutcome - looks for a completed line or a full board and ends the game when
// it finds one. The game over notifications fire once, on the transition.
func (that *Game) CheckOutcome() entity.Outcome {
	if that.outcome.IsOver() {
		return that.outcome
	}

	outcome, err := evaluate(that.grid, that.lines)
	if err != nil {
		// a single mark per move can complete lines for one player only
		panic(fmt.Errorf("unreachable board state: %w", err))
	}

	if !outcome.IsOver() {
		return outcome
	}

	that.outcome = outcome

	that.renderer.Render(event.Banner(outcome.String()))
	that.renderer.Render(event.Menu(that.grid.Menu()))

	if outcome.IsDraw() {
		that.audio.Play(event.CueDraw)
	} else {
		that.audio.Play(event.CueVictory)
	}

	return outcome
}

// evaluate computes the outcome of the board without touching any state.
func evaluate(grid *board.Grid, lines [][]int) (entity.Outcome, error) {
	winner := entity.NoPlayer

	for _, line := range lines {
		mark := lineOwner(grid, line)
		if mark == entity.EmptyCell {
			continue
		}

		player := entity.PlayerOf(mark)
		if winner != entity.NoPlayer && winner != player {
			return entity.OutcomeInProgress, apperror.ErrConflictingWinners
		}

		winner = player
	}

	if winner != entity.NoPlayer {
		return entity.WinFor(winner), nil
	}

	if grid.IsFull() {
		return entity.OutcomeDraw, nil
	}

	return entity.OutcomeInProgress, nil
}

// lineOwner returns the mark filling the whole line, or an empty mark.
func lineOwner(grid *board.Grid, line []int) entity.Mark {
	first := grid.StateAt(line[0])
	if first == entity.EmptyCell {
		return entity.EmptyCell
	}

	for _, index := range line[1:] {
		if grid.StateAt(index) != first {
			return entity.EmptyCell
		}
	}

	return first
}

// Reset - clears the board and gives the first move back to player one.
func (that *Game) Reset() {
	that.grid.Reset()
	that.turn = entity.PlayerOne
	that.outcome = entity.OutcomeInProgress

	that.renderer.Render(event.BoardCleared())
}

// ClickResult is a MoveResult extended with the menu entry hit after the game ended.
type ClickResult struct {
	MoveResult
	MenuItem board.MenuItem `json:"menu_item,omitempty"`
}

// Click - handles a pointer click at pixel (x, y). While the game runs the click is a
// move on the cell under the pointer; once it is over the click selects a menu entry.
// Replay resets the game, quit is only reported: leaving belongs to the host.
func (that *Game) Click(x, y float64) ClickResult {
	if that.outcome.IsOver() {
		item, ok := that.grid.MenuItemAt(x, y)
		if !ok {
			return ClickResult{MoveResult: that.rejected(-1, apperror.ErrOutsideMenu)}
		}

		if item == board.MenuReplay {
			that.Reset()
		}

		return ClickResult{
			MoveResult: MoveResult{Cell: -1, Outcome: that.outcome},
			MenuItem:   item,
		}
	}

	cell, ok := that.grid.CellAt(x, y)
	if !ok {
		return ClickResult{MoveResult: that.rejected(-1, apperror.ErrOutsideBoard)}
	}

	return ClickResult{MoveResult: that.ApplyMove(cell)}
}

// Turn - returns the player to move next.
func (that *Game) Turn() entity.Player {
	return that.turn
}

func (that *Game) Outcome() entity.Outcome {
	return that.outcome
}

func (that *Game) IsOver() bool {
	return that.outcome.IsOver()
}

func (that *Game) Grid() *board.Grid {
	return that.grid
}
