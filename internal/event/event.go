// Package event describes what the game core reports to the outside world: things to draw
// and sounds to play. The core only emits these values, hosts decide what to do with them.
package event

import (
	"github.com/rocketscienceinc/tictactoe-board/internal/board"
	"github.com/rocketscienceinc/tictactoe-board/internal/entity"
)

type Kind string

const (
	KindMarkPlaced   Kind = "mark_placed"
	KindBanner       Kind = "banner"
	KindMenu         Kind = "menu"
	KindBoardCleared Kind = "board_cleared"
)

// Event is a single drawing instruction.
type Event struct {
	Kind Kind               `json:"kind"`
	Cell int                `json:"cell"`
	Mark entity.Mark        `json:"mark,omitempty"`
	Text string             `json:"text,omitempty"`
	Menu []board.MenuRegion `json:"menu,omitempty"`
}

func MarkPlaced(cell int, mark entity.Mark) Event {
	return Event{Kind: KindMarkPlaced, Cell: cell, Mark: mark}
}

func Banner(text string) Event {
	return Event{Kind: KindBanner, Cell: -1, Text: text}
}

func Menu(regions []board.MenuRegion) Event {
	return Event{Kind: KindMenu, Cell: -1, Menu: regions}
}

func BoardCleared() Event {
	return Event{Kind: KindBoardCleared, Cell: -1}
}

// Cue is a sound to play.
type Cue string

const (
	CuePlayerOne Cue = "player_1"
	CuePlayerTwo Cue = "player_2"
	CueVictory   Cue = "victory"
	CueDraw      Cue = "draw"
)

// CueFor - returns the cue played when the player puts a mark down.
func CueFor(player entity.Player) Cue {
	if player == entity.PlayerTwo {
		return CuePlayerTwo
	}
	return CuePlayerOne
}

// Renderer draws events. Implementations must not block the caller for long:
// the core never waits for a frame to be drawn.
type Renderer interface {
	Render(ev Event)
}

// Audio plays cues. It is optional everywhere it is accepted.
type Audio interface {
	Play(cue Cue)
}

type RendererFunc func(ev Event)

func (that RendererFunc) Render(ev Event) {
	that(ev)
}

type AudioFunc func(cue Cue)

func (that AudioFunc) Play(cue Cue) {
	that(cue)
}

type discard struct{}

func (discard) Render(Event) {}

func (discard) Play(Cue) {}

// Discard drops everything it is given.
var Discard = discard{}

// MultiRenderer - fans events out to every non-nil renderer in order.
func MultiRenderer(renderers ...Renderer) Renderer {
	targets := make([]Renderer, 0, len(renderers))
	for _, r := range renderers {
		if r != nil {
			targets = append(targets, r)
		}
	}

	return RendererFunc(func(ev Event) {
		for _, r := range targets {
			r.Render(ev)
		}
	})
}

// MultiAudio - fans cues out to every non-nil audio sink in order.
func MultiAudio(sinks ...Audio) Audio {
	targets := make([]Audio, 0, len(sinks))
	for _, a := range sinks {
		if a != nil {
			targets = append(targets, a)
		}
	}

	return AudioFunc(func(cue Cue) {
		for _, a := range targets {
			a.Play(cue)
		}
	})
}
