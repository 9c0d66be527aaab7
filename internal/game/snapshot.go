package game

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-board/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
	"github.com/rocketscienceinc/tictactoe-board/internal/event"
)

// Snapshot - returns a copy of the game state.
func (that *Game) Snapshot() entity.GameState {
	return entity.GameState{
		Size:    that.grid.Size(),
		Cells:   that.grid.Cells(),
		Turn:    that.turn,
		Outcome: that.outcome,
	}
}

// Restore - replaces the game state with a snapshot. Only states reachable by legal
// play are accepted; on error the game is left untouched. Nothing is rendered.
func (that *Game) Restore(state entity.GameState) error {
	if err := that.validate(state); err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvalidSnapshot, err)
	}

	for index, mark := range state.Cells {
		that.grid.SetState(index, mark)
	}

	that.turn = state.Turn
	that.outcome = state.Outcome

	return nil
}

func (that *Game) validate(state entity.GameState) error {
	if state.Size != that.grid.Size() || len(state.Cells) != that.grid.Len() {
		return fmt.Errorf("size %d with %d cells does not fit a %d grid", state.Size, len(state.Cells), that.grid.Size())
	}

	if !state.Turn.IsValid() || !state.Outcome.IsValid() {
		return fmt.Errorf("unknown turn %d or outcome %q", state.Turn, state.Outcome)
	}

	var xCount, oCount int
	for _, mark := range state.Cells {
		if !mark.IsValid() {
			return fmt.Errorf("unknown mark %q", mark)
		}

		switch mark {
		case entity.PlayerX:
			xCount++
		case entity.PlayerO:
			oCount++
		}
	}

	// player one moves first, so X leads by at most one
	expectedTurn := entity.PlayerOne
	switch xCount - oCount {
	case 0:
	case 1:
		expectedTurn = entity.PlayerTwo
	default:
		return fmt.Errorf("%d X marks against %d O marks", xCount, oCount)
	}

	if state.Turn != expectedTurn {
		return fmt.Errorf("turn %d, expected %d", state.Turn, expectedTurn)
	}

	scratch := that.grid.Clone()
	for index, mark := range state.Cells {
		scratch.SetState(index, mark)
	}

	outcome, err := evaluate(scratch, that.lines)
	if err != nil {
		return err
	}

	if outcome != state.Outcome {
		return fmt.Errorf("outcome %q, board says %q", state.Outcome, outcome)
	}

	// the winner made the last move
	if winner := outcome.Winner(); winner != entity.NoPlayer && state.Turn != winner.Other() {
		return fmt.Errorf("player %d won but player %d moved after", winner, winner.Other())
	}

	return nil
}

// Redraw - emits the events a fresh renderer needs to show the current board:
// a cleared board, every mark, and the banner and menu when the game is over.
// No cues are played.
func (that *Game) Redraw() {
	that.renderer.Render(event.BoardCleared())

	for index := 0; index < that.grid.Len(); index++ {
		if mark := that.grid.StateAt(index); mark != entity.EmptyCell {
			that.renderer.Render(event.MarkPlaced(index, mark))
		}
	}

	if that.outcome.IsOver() {
		that.renderer.Render(event.Banner(that.outcome.String()))
		that.renderer.Render(event.Menu(that.grid.Menu()))
	}
}
